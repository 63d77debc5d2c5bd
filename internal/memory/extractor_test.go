package memory

import (
	"reflect"
	"testing"
)

func TestExtractStructure_Declarations(t *testing.T) {
	src := `
import React from 'react';
import { useState } from 'react';
import './styles.css';

function fetchData() { return null; }
const TodoList = () => {};
let counter = 0;
var legacy = true;
`
	ext := ExtractStructure(src)

	wantFns := []string{"fetchData", "TodoList", "counter", "legacy"}
	if !reflect.DeepEqual(ext.Functions, wantFns) {
		t.Errorf("functions: got %v, want %v", ext.Functions, wantFns)
	}
	if !reflect.DeepEqual(ext.Components, []string{"TodoList"}) {
		t.Errorf("components: got %v", ext.Components)
	}
	wantImports := []string{"react", "./styles.css"}
	if !reflect.DeepEqual(ext.Imports, wantImports) {
		t.Errorf("imports: got %v, want %v", ext.Imports, wantImports)
	}
}

func TestExtractStructure_MalformedInput(t *testing.T) {
	// Garbage must never panic and may simply yield nothing.
	inputs := []string{"", "import from from import", "{{{{", "const const const"}
	for _, in := range inputs {
		_ = ExtractStructure(in)
	}
}

func TestMergeFile_AddsWithoutOverwriting(t *testing.T) {
	cs := DefaultCodeStructure()

	cs.MergeFile("src/app.jsx", "const App = () => {}")
	if cs.Components["App"].File != "src/app.jsx" {
		t.Fatalf("App not registered: %+v", cs.Components)
	}

	// Re-declaring App in another file must not move the existing entry.
	cs.MergeFile("src/other.jsx", "const App = () => {}")
	if cs.Components["App"].File != "src/app.jsx" {
		t.Errorf("existing component entry was overwritten: %+v", cs.Components["App"])
	}
	if cs.Functions["App"].ReturnType != "unknown" {
		t.Errorf("function entry should record unknown return type, got %q", cs.Functions["App"].ReturnType)
	}
}

func TestMergeFile_ImportsOverwritePerFile(t *testing.T) {
	cs := DefaultCodeStructure()

	cs.MergeFile("src/app.jsx", `import React from 'react';`)
	cs.MergeFile("src/app.jsx", `import axios from 'axios';`)

	got := cs.Imports["src/app.jsx"]
	if !reflect.DeepEqual(got, []string{"axios"}) {
		t.Errorf("imports for file should be overwritten, got %v", got)
	}
}

func TestCodeStructureSummary(t *testing.T) {
	cs := DefaultCodeStructure()
	cs.MergeFile("src/app.jsx", "const App = () => {}\nfunction helper() {}")

	got := cs.Summary()
	want := "components: 1, functions: 2, files: 1"
	if got != want {
		t.Errorf("summary: got %q, want %q", got, want)
	}
}
