package zimg

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

// SchemaRecord is one row of a schema report.
type SchemaRecord struct {
	Index   int    `csv:"index"`
	SmallX  uint32 `csv:"small_x"`
	SmallY  uint32 `csv:"small_y"`
	SmallWH uint32 `csv:"small_wh"`
	BigWH   uint32 `csv:"big_wh"`
	Count   int    `csv:"bigs"`
	Bigs    string `csv:"big_origins"`
}

// SchemaRecords returns one record per schema, in storage order.
func (z *ZImage[P]) SchemaRecords() []*SchemaRecord {
	records := make([]*SchemaRecord, 0, len(z.Schemas))
	for i := range z.Schemas {
		s := &z.Schemas[i]
		origins := make([]string, len(s.Bigs))
		for j, b := range s.Bigs {
			origins[j] = fmt.Sprintf("%d:%d", b.X, b.Y)
		}
		records = append(records, &SchemaRecord{
			Index:   i,
			SmallX:  s.SmallX,
			SmallY:  s.SmallY,
			SmallWH: s.SmallWH,
			BigWH:   s.BigWH,
			Count:   len(s.Bigs),
			Bigs:    strings.Join(origins, " "),
		})
	}
	return records
}

// WriteReport writes the schema table of z to w as CSV with a header row.
func (z *ZImage[P]) WriteReport(w io.Writer) error {
	records := z.SchemaRecords()
	if err := gocsv.Marshal(&records, w); err != nil {
		return fmt.Errorf("zimg: writing schema report: %w", err)
	}
	return nil
}
