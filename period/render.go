package period

import (
	"fmt"
	"strings"
	"time"
)

// Render returns a multi-line dump of the interval and its children, blank
// line separated. Meant for logs and debugging; the layout is not stable.
func (iv *Interval) Render() string {
	var sb strings.Builder
	iv.render(&sb)
	return sb.String()
}

func (iv *Interval) render(sb *strings.Builder) {
	sb.WriteString("Date Period\n")
	sb.WriteString("-----------\n")
	fmt.Fprintf(sb, "Length:\t%d\n", iv.length)
	fmt.Fprintf(sb, "Precision:\t%s\n", iv.precision)
	fmt.Fprintf(sb, "Reference:\t%s\n", iv.reference.Format(time.DateTime))
	fmt.Fprintf(sb, "Start:\t%s\n", iv.start.Format(time.DateTime))
	fmt.Fprintf(sb, "End:\t%s\n", iv.end.Format(time.DateTime))

	if iv.HasChildren() {
		sb.WriteString("\nInner intervals:\n")
		for _, c := range iv.children {
			sb.WriteString("\n")
			c.render(sb)
		}
	}
}
