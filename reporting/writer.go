// Writers rendering rows for the command line.

package reporting

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Velocidex/ordereddict"
	"github.com/olekukonko/tablewriter"
	"www.velocidex.com/golang/changelog/json"
	"www.velocidex.com/golang/changelog/utils"
)

var (
	Formats = []string{"json", "jsonl", "csv", "table"}
)

type RowWriter interface {
	Write(row *ordereddict.Dict) error

	// Flushes buffered output. Nothing may be written after Close().
	Close() error
}

// Columns fixes the column order. When empty, the columns of the
// first row are used.
func NewRowWriter(
	format string, columns []string, out io.Writer) (RowWriter, error) {
	switch format {
	case "json":
		return &jsonWriter{out: out}, nil

	case "jsonl":
		return &jsonlWriter{out: out}, nil

	case "csv":
		return &csvWriter{columns: columns, writer: csv.NewWriter(out)}, nil

	case "table":
		table := tablewriter.NewWriter(out)
		table.SetAutoFormatHeaders(false)
		table.SetAutoWrapText(false)
		return &tableWriter{columns: columns, table: table}, nil
	}

	return nil, fmt.Errorf("%w: unknown format %v",
		utils.InvalidArgError, format)
}

type jsonWriter struct {
	out  io.Writer
	rows []*ordereddict.Dict
}

func (self *jsonWriter) Write(row *ordereddict.Dict) error {
	self.rows = append(self.rows, row)
	return nil
}

func (self *jsonWriter) Close() error {
	serialized, err := json.MarshalIndent(self.rows)
	if err != nil {
		return err
	}
	_, err = self.out.Write(append(serialized, '\n'))
	return err
}

type jsonlWriter struct {
	out io.Writer
}

func (self *jsonlWriter) Write(row *ordereddict.Dict) error {
	serialized, err := json.MarshalJsonl([]*ordereddict.Dict{row})
	if err != nil {
		return err
	}
	_, err = self.out.Write(serialized)
	return err
}

func (self *jsonlWriter) Close() error {
	return nil
}

func getColumns(columns []string, row *ordereddict.Dict) []string {
	if len(columns) > 0 {
		return columns
	}
	return row.Keys()
}

func getCells(columns []string, row *ordereddict.Dict) []string {
	result := make([]string, 0, len(columns))
	for _, column := range columns {
		value, pres := row.Get(column)
		cell := ""
		if pres && !utils.IsNil(value) {
			cell = utils.ToString(value)
		}
		result = append(result, cell)
	}
	return result
}

type csvWriter struct {
	columns       []string
	writer        *csv.Writer
	wrote_headers bool
}

func (self *csvWriter) Write(row *ordereddict.Dict) error {
	if !self.wrote_headers {
		self.columns = getColumns(self.columns, row)
		err := self.writer.Write(self.columns)
		if err != nil {
			return err
		}
		self.wrote_headers = true
	}
	return self.writer.Write(getCells(self.columns, row))
}

func (self *csvWriter) Close() error {
	if !self.wrote_headers && len(self.columns) > 0 {
		err := self.writer.Write(self.columns)
		if err != nil {
			return err
		}
	}
	self.writer.Flush()
	return self.writer.Error()
}

type tableWriter struct {
	columns []string
	table   *tablewriter.Table
	headers bool
}

func (self *tableWriter) Write(row *ordereddict.Dict) error {
	if !self.headers {
		self.columns = getColumns(self.columns, row)
		self.table.SetHeader(self.columns)
		self.headers = true
	}
	self.table.Append(getCells(self.columns, row))
	return nil
}

func (self *tableWriter) Close() error {
	if !self.headers && len(self.columns) > 0 {
		self.table.SetHeader(self.columns)
	}
	self.table.Render()
	return nil
}
