package render

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrinter_Table(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	err := p.Table("记录", []string{"字段", "值"}, [][]string{
		{"基本信息_姓名", "张三"},
		{"问诊_症状_主要不适", "fatigue, dizziness"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"记录", "字段", "基本信息_姓名", "张三", "fatigue, dizziness"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "基本信息_姓名") > strings.Index(out, "问诊_症状_主要不适") {
		t.Error("rows rendered out of order")
	}
}

func TestPrinter_TableWithoutTitle(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf).Table("", []string{"a"}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "a") {
		t.Errorf("header missing: %q", buf.String())
	}
}

func TestPrinter_Notes(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf).Notes("提示", []string{"first", "second"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "1. first") || !strings.Contains(out, "2. second") {
		t.Errorf("notes not numbered:\n%s", out)
	}
}

func TestPrinter_Line(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Line("wrote %s", "report.csv")
	if buf.String() != "wrote report.csv\n" {
		t.Errorf("unexpected line %q", buf.String())
	}
}
