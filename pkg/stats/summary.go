package stats

import (
	"math/big"
	"time"
)

// Summary is a read-only view of an aggregator, as consumed by report formatters.
type Summary struct {
	Source              string     `json:"source"`
	From                *time.Time `json:"from,omitempty"`
	To                  *time.Time `json:"to,omitempty"`
	Requests            *big.Int   `json:"requests"`
	AverageResponseSize *big.Int   `json:"average_response_size"`
	ResponseSizeP95     *big.Int   `json:"response_size_p95"`
	TopResources        []Entry    `json:"top_resources"`
	TopStatusCodes      []Entry    `json:"top_status_codes"`
	TopRemoteAddresses  []Entry    `json:"top_remote_addresses"`
	TopReferers         []Entry    `json:"top_referers"`
}

// Snapshot computes every query once and returns the results.
func (a *Aggregator) Snapshot() Summary {
	return Summary{
		Source:              a.source,
		From:                a.from,
		To:                  a.to,
		Requests:            a.Requests(),
		AverageResponseSize: a.AverageResponseSize(),
		ResponseSizeP95:     a.ResponseSizePercentile(),
		TopResources:        a.TopResources(),
		TopStatusCodes:      a.TopStatusCodes(),
		TopRemoteAddresses:  a.TopRemoteAddresses(),
		TopReferers:         a.TopReferers(),
	}
}
