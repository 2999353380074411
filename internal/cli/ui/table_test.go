package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestTable(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	table := NewTable(&buf, "Name", "Label", "Fields")

	table.AddRow("Account", "Account", "71")
	table.AddRow("Invoice__c", "Customer Invoice", "24")
	table.Render()

	output := buf.String()

	for _, want := range []string{"Name", "Label", "Fields", "Account", "Invoice__c", "Customer Invoice", "─"} {
		if !strings.Contains(output, want) {
			t.Errorf("table output missing %q:\n%s", want, output)
		}
	}

	if table.Len() != 2 {
		t.Errorf("Len() = %d; want 2", table.Len())
	}
}

func TestTableColumnAlignment(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	table := NewTable(&buf, "Name", "Type")
	table.AddRow("Id", "id")
	table.AddRow("AccountId", "reference")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}

	// Both rows pad the first column to the widest cell.
	if !strings.HasPrefix(lines[2], "Id        ") {
		t.Errorf("short cell not padded: %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "AccountId  ") {
		t.Errorf("column gap missing: %q", lines[3])
	}
}

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf).Render()

	if buf.Len() != 0 {
		t.Errorf("expected no output for a table without headers, got: %q", buf.String())
	}
}

func TestTableRaggedRows(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	table := NewTable(&buf, "Name", "Label")
	table.AddRow("Account")
	table.AddRow("Contact", "Contact", "extra cell")
	table.Render()

	output := buf.String()
	if strings.Contains(output, "extra cell") {
		t.Errorf("extra cells should be dropped:\n%s", output)
	}
	if !strings.Contains(output, "Account") {
		t.Errorf("short row missing:\n%s", output)
	}
}

func TestKeyValue(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	kv := NewKeyValue(&buf)
	kv.Add("Org", "https://example.my.salesforce.com")
	kv.Add("API version", "v60.0")
	kv.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), buf.String())
	}

	// Keys pad to a shared width so values line up.
	if lines[1] != "API version: v60.0" {
		t.Errorf("unexpected line: %q", lines[1])
	}
	if strings.Index(lines[0], "https://") != strings.Index(lines[1], "v60.0") {
		t.Errorf("values not aligned:\n%s", buf.String())
	}
}

func TestSection(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	section := NewSection(&buf, "Outbound lookups")
	section.AddLine("AccountId -> Account")
	section.AddLine("OwnerId -> User")
	section.Render()

	output := buf.String()
	if !strings.Contains(output, "Outbound lookups\n") {
		t.Errorf("missing title:\n%s", output)
	}
	if !strings.Contains(output, "  AccountId -> Account\n") {
		t.Errorf("body lines should be indented:\n%s", output)
	}
	if !strings.HasSuffix(output, "\n\n") {
		t.Errorf("section should end with a blank line:\n%q", output)
	}
}
