// Package output 负责命令行结果的表格化输出
package output

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// TableRenderer 可渲染为表格的数据
type TableRenderer interface {
	Headers() []string
	Rows() [][]string
}

// PrintTable 输出无边框表格，全部为数字 (或 "-") 的列右对齐，其余左对齐
func PrintTable(w io.Writer, data TableRenderer) error {
	rows := data.Rows()
	table := tablewriter.NewWriter(w)
	table.SetHeader(data.Headers())
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetColumnAlignment(columnAlignment(len(data.Headers()), rows))
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(rows)
	table.Render()
	return nil
}

// columnAlignment 为每列选择对齐方式，空表全部左对齐
func columnAlignment(cols int, rows [][]string) []int {
	align := make([]int, cols)
	for c := range align {
		align[c] = tablewriter.ALIGN_LEFT
		if len(rows) > 0 && numericColumn(rows, c) {
			align[c] = tablewriter.ALIGN_RIGHT
		}
	}
	return align
}

func numericColumn(rows [][]string, c int) bool {
	for _, row := range rows {
		if c >= len(row) {
			return false
		}
		if row[c] == "-" {
			continue
		}
		if _, err := strconv.ParseFloat(row[c], 64); err != nil {
			return false
		}
	}
	return true
}

// TableData 通用表格数据
type TableData struct {
	headers []string
	rows    [][]string
}

func NewTableData(headers ...string) *TableData {
	return &TableData{headers: headers}
}

func (t *TableData) AddRow(row ...string) {
	t.rows = append(t.rows, row)
}

func (t *TableData) Headers() []string {
	return t.headers
}

func (t *TableData) Rows() [][]string {
	return t.rows
}

// KeyValue 输出 "key : value" 两列，用于汇总信息
func KeyValue(w io.Writer, pairs [][2]string) error {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator(":")
	table.SetRowSeparator("")
	for _, p := range pairs {
		table.Append([]string{p[0], p[1]})
	}
	table.Render()
	return nil
}
