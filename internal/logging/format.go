package logging

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Transport families with independently memoized column widths.
const (
	FamilyConsole = "console"
	FamilyFile    = "file"
)

// timeLayout is the clock prefix of every line.
const timeLayout = "15:04:05"

// painter decorates the fields of a line. The zero value leaves text plain.
type painter struct {
	time  func(string) string
	typ   func(typ, text string) string
	tag   func(string) string
	shard func(string) string
}

func (p painter) paintTime(s string) string {
	if p.time == nil {
		return s
	}
	return p.time(s)
}

func (p painter) paintType(typ, s string) string {
	if p.typ == nil {
		return s
	}
	return p.typ(typ, s)
}

func (p painter) paintTag(s string) string {
	if p.tag == nil {
		return s
	}
	return p.tag(s)
}

func (p painter) paintShard(s string) string {
	if p.shard == nil {
		return s
	}
	return p.shard(s)
}

// ShardLabel renders a shard number as it appears in output, e.g. "SHARD_03".
func ShardLabel(shard int) string {
	return fmt.Sprintf("SHARD_%02d", shard)
}

// formatLine lays out one record:
//
//	[HH:MM:SS][SHARD_nn][TYPE ][TAG ]: text
//
// The shard field is omitted when no shard is set. Type and tag are padded
// on the right to the family widths.
func formatLine(rec Record, shard int, hasShard bool, w Widths, p painter) string {
	var sb strings.Builder

	sb.WriteString("[")
	sb.WriteString(p.paintTime(rec.Timestamp.Local().Format(timeLayout)))
	sb.WriteString("]")

	if hasShard {
		sb.WriteString("[")
		sb.WriteString(p.paintShard(ShardLabel(shard)))
		sb.WriteString("]")
	}

	sb.WriteString("[")
	sb.WriteString(p.paintType(rec.Type, runewidth.FillRight(rec.Type, w.Type)))
	sb.WriteString("][")
	sb.WriteString(p.paintTag(runewidth.FillRight(rec.Tag, w.Tag)))
	sb.WriteString("]: ")
	sb.WriteString(rec.Text)
	sb.WriteString("\n")

	return sb.String()
}

// renderRecord widens the family's columns for rec and formats it using the
// registry's shard.
func renderRecord(reg *Registry, family string, rec Record, p painter) string {
	w := reg.Widen(family, runewidth.StringWidth(rec.Type), runewidth.StringWidth(rec.Tag))
	shard, hasShard := reg.Shard()
	return formatLine(rec, shard, hasShard, w, p)
}
