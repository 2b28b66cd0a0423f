package parser

import (
	"fmt"
	"strings"

	"github.com/tracknest/ingest/internal/models"
)

// Layout describes where the fields of a statement table live.
//
// Federal Bank statements come in two shapes:
//
//	detailed: Date | Value Date | Particulars | Tran Type | Tran ID | Cheque | Withdrawal | Deposit | Balance | DR/CR
//	compact:  Date | Particulars / Narration | Chq.No | Withdrawal | Deposit | Balance
type Layout struct {
	Name          string
	DateCol       int
	NarrationCol  int
	WithdrawalCol int
	DepositCol    int
	MinColumns    int
}

var (
	LayoutFederalDetailed = Layout{
		Name:          "federal",
		DateCol:       0,
		NarrationCol:  2,
		WithdrawalCol: 6,
		DepositCol:    7,
		MinColumns:    8,
	}
	LayoutFederalCompact = Layout{
		Name:          "federal-compact",
		DateCol:       0,
		NarrationCol:  1,
		WithdrawalCol: 3,
		DepositCol:    4,
		MinColumns:    5,
	}
)

// DefaultLayout is used when nothing else is requested or detected.
var DefaultLayout = LayoutFederalDetailed

// LayoutByName returns the layout registered under name.
func LayoutByName(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return Layout{}, nil
	case LayoutFederalDetailed.Name, "federal-detailed":
		return LayoutFederalDetailed, nil
	case LayoutFederalCompact.Name:
		return LayoutFederalCompact, nil
	default:
		return Layout{}, fmt.Errorf("unsupported statement layout: %q", name)
	}
}

// IsZero reports whether l is unset, meaning "detect from the document".
func (l Layout) IsZero() bool {
	return l.Name == ""
}

// DetectLayout picks a layout from the first header row it finds. A header
// with a value-date column means the detailed layout; a header with a
// withdrawal column but no value date means the compact one.
func DetectLayout(pages []models.Table) Layout {
	for _, table := range pages {
		for _, row := range table {
			if len(row) == 0 || !strings.Contains(strings.ToLower(row[0]), "date") {
				continue
			}
			header := strings.ToLower(strings.Join(row, "|"))
			switch {
			case strings.Contains(header, "value date") || strings.Contains(header, "valdate") || strings.Contains(header, "tran id"):
				return LayoutFederalDetailed
			case strings.Contains(header, "withdrawal") && len(row) <= 7:
				return LayoutFederalCompact
			}
		}
	}
	return DefaultLayout
}
