package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/supplymate/core/model"
)

var csvHeader = []string{"recipient_id", "supply", "quantity", "total_value", "total_weight", "score"}

// WriteJSON writes the allocation records to w as an indented JSON array.
func WriteJSON(w io.Writer, records []*model.Record) error {
	if records == nil {
		records = []*model.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// WriteCSV writes one row per allocated supply. Recipients that received
// nothing still get a single row with an empty supply column so the export
// lists every ranked recipient.
func WriteCSV(w io.Writer, records []*model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		if r == nil {
			continue
		}
		totals := []string{
			strconv.Itoa(r.TotalValue),
			strconv.Itoa(r.TotalWeight),
			strconv.FormatFloat(r.Score, 'f', 2, 64),
		}
		if len(r.Lines) == 0 {
			row := append([]string{r.RecipientID, "", "0"}, totals...)
			if err := cw.Write(row); err != nil {
				return err
			}
			continue
		}
		for _, l := range r.Lines {
			row := append([]string{r.RecipientID, l.Supply, strconv.Itoa(l.Quantity)}, totals...)
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
