package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	sectionColor = color.New(color.FgYellow)
	okColor      = color.New(color.FgGreen)
	errColor     = color.New(color.FgRed)
)

// clearValue typed at an optional prompt empties the field instead of keeping it.
const clearValue = "-"

type terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// readLine returns the trimmed next line. io.EOF is returned only when no input is left.
func (t *terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (t *terminal) prompt(label string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", label)
	return t.readLine()
}

// promptDefault keeps current on an empty answer and clears it on "-".
func (t *terminal) promptDefault(label, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(t.out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(t.out, "%s: ", label)
	}
	answer, err := t.readLine()
	if err != nil {
		return "", err
	}
	switch answer {
	case "":
		return current, nil
	case clearValue:
		return "", nil
	}
	return answer, nil
}

func (t *terminal) promptID(label string) (int64, bool, error) {
	answer, err := t.prompt(label)
	if err != nil {
		return 0, false, err
	}
	id, convErr := strconv.ParseInt(answer, 10, 64)
	if convErr != nil || id <= 0 {
		t.fail("ID invalid.")
		return 0, false, nil
	}
	return id, true, nil
}

func (t *terminal) confirm(question string) (bool, error) {
	answer, err := t.prompt(question + " (d/n)")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "d", "da", "y", "yes":
		return true, nil
	}
	return false, nil
}

func (t *terminal) title(s string) {
	titleColor.Fprintln(t.out, "\n"+s)
}

func (t *terminal) section(s string) {
	sectionColor.Fprintln(t.out, "\n"+s)
}

func (t *terminal) success(format string, args ...any) {
	okColor.Fprintf(t.out, format+"\n", args...)
}

func (t *terminal) fail(msg string) {
	errColor.Fprintln(t.out, msg)
}

func (t *terminal) println(a ...any) {
	fmt.Fprintln(t.out, a...)
}

func (t *terminal) table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		t.println("Nu exista inregistrari.")
		return
	}
	table := tablewriter.NewWriter(t.out)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
