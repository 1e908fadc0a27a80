package steps

import (
	"strings"
	"testing"

	"github.com/systemstart/easy-amplify/pkg/api"
	"github.com/systemstart/easy-amplify/pkg/pipeline"
)

func TestMergeStylesStep_Apply(t *testing.T) {
	step := NewMergeStylesStep("styles", nil)
	doc := parseTestDocument(t, `<html><head>
<style amp-boilerplate>body{opacity:0}</style>
<style>h1{color:red}</style>
</head><body><style>p{margin:0}</style><p>x</p></body></html>`)

	if o := applyTestStep(t, step, doc); o.Kind != pipeline.KindContinue {
		t.Fatalf("unexpected outcome: %s", o)
	}

	styles := doc.Find("style")
	if len(styles) != 2 {
		t.Fatalf("expected boilerplate and custom style, got %d", len(styles))
	}

	out := renderTestDocument(t, doc)
	if !strings.Contains(out, "<style amp-custom=\"\">h1{color:red}\np{margin:0}</style></head>") {
		t.Fatalf("styles not merged into head: %s", out)
	}
	if !strings.Contains(out, "<style amp-boilerplate=\"\">body{opacity:0}</style>") {
		t.Fatalf("boilerplate style was touched: %s", out)
	}
	if doc.Meta[MetaCustomCSSBytes] != len("h1{color:red}\np{margin:0}") {
		t.Errorf("size meta = %v", doc.Meta[MetaCustomCSSBytes])
	}
}

func TestMergeStylesStep_Warnings(t *testing.T) {
	step := NewMergeStylesStep("styles", &api.MergeStylesConfig{})
	doc := parseTestDocument(t, `<head><link rel="stylesheet" href="/site.css"><style>a{color:blue!important}</style></head>`)

	o := applyTestStep(t, step, doc)
	if o.Kind != pipeline.KindWarn {
		t.Fatalf("expected warning, got %s", o)
	}
	if !strings.Contains(o.Message, "/site.css") || !strings.Contains(o.Message, "!important") {
		t.Errorf("unexpected message %q", o.Message)
	}
	if len(doc.Find("link")) != 0 {
		t.Error("external stylesheet link should be dropped")
	}
}

func TestMergeStylesStep_KeepLinkedStyles(t *testing.T) {
	step := NewMergeStylesStep("styles", &api.MergeStylesConfig{KeepLinkedStyles: true})
	doc := parseTestDocument(t, `<head><link rel="stylesheet" href="https://fonts.example.com/css"></head>`)

	if o := applyTestStep(t, step, doc); o.Kind != pipeline.KindContinue {
		t.Fatalf("unexpected outcome: %s", o)
	}
	if len(doc.Find("link")) != 1 {
		t.Error("link should be kept")
	}
	if len(doc.Find("style")) != 0 {
		t.Error("no custom style expected without inline CSS")
	}
}

func TestMergeStylesStep_TooLarge(t *testing.T) {
	step := NewMergeStylesStep("styles", &api.MergeStylesConfig{MaxBytes: 10})
	doc := parseTestDocument(t, `<head><style>body{background:#ffffff}</style></head>`)

	o := applyTestStep(t, step, doc)
	if o.Kind != pipeline.KindAbort {
		t.Fatalf("expected abort, got %s", o)
	}
	if !strings.Contains(o.Message, "limit is 10") {
		t.Errorf("unexpected message %q", o.Message)
	}
}
