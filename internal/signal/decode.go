package signal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type rawSignal struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Severity    *float64 `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	EvidenceURL string   `json:"evidence_url"`
	OccurredAt  string   `json:"occurred_at"`
}

// DecodeSignals parses a JSON array of signal records. Records without a
// type are skipped; optional fields keep their documented defaults.
func DecodeSignals(data []byte) ([]Signal, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var raws []rawSignal
	if err := decoder.Decode(&raws); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}

	signals := make([]Signal, 0, len(raws))
	for _, r := range raws {
		if strings.TrimSpace(r.Type) == "" {
			continue
		}

		var occurred time.Time
		if r.OccurredAt != "" {
			ts, err := time.Parse(time.RFC3339, r.OccurredAt)
			if err != nil {
				return nil, fmt.Errorf("parse occurred_at for %q: %w", r.Type, err)
			}
			occurred = ts
		}

		s := Signal{
			ID:          r.ID,
			Type:        Type(strings.ToUpper(strings.TrimSpace(r.Type))),
			Category:    ParseCategory(r.Category),
			Title:       r.Title,
			Description: r.Description,
			EvidenceURL: r.EvidenceURL,
			OccurredAt:  occurred,
		}
		// An explicit severity clamps here, while it can still be told
		// apart from an absent field. Normalize would read a stored zero
		// as "absent" and default it to 1.0.
		if r.Severity != nil {
			s.Severity = ClampSeverity(*r.Severity)
		}
		signals = append(signals, s)
	}

	return signals, nil
}
