package consecution

import (
	"encoding/csv"
	"fmt"
	"io"
)

var nodeLogHeader = []string{"node_log", "what", "node_name", "item"}

// nodeLog writes node log records as CSV lines:
//
//	node_log,what,node_name,item
//	node_log,output,a,1|generator|a
type nodeLog struct {
	w             *csv.Writer
	headerWritten bool
}

func newNodeLog(w io.Writer) *nodeLog {
	return &nodeLog{w: csv.NewWriter(w)}
}

func (l *nodeLog) header() error {
	if l.headerWritten {
		return nil
	}
	l.headerWritten = true
	return l.line(nodeLogHeader)
}

func (l *nodeLog) write(dir LogDirection, node string, item any) error {
	return l.line([]string{"node_log", dir.String(), node, fmt.Sprint(item)})
}

func (l *nodeLog) line(record []string) error {
	if err := l.w.Write(record); err != nil {
		return fmt.Errorf("%w: %v", ErrLogging, err)
	}
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrLogging, err)
	}
	return nil
}
