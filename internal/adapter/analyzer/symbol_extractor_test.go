package analyzer

import "testing"

func TestDeclarationNamer_Name(t *testing.T) {
	tests := []struct {
		line     string
		lang     string
		wantName string
		wantKind string
	}{
		{"export function add(a, b) {", "javascript", "add", "function"},
		{"export default class Store extends Base {", "typescript", "Store", "class"},
		{"export interface Options {", "typescript", "Options", "interface"},
		{"export const MAX_SIZE = 10;", "typescript", "MAX_SIZE", "constant"},
		{"async function* stream() {", "javascript", "stream", "function"},
		{"public static int add(int a, int b) {", "java", "add", "method"},
		{"private final String name;", "java", "name", "property"},
		{"public enum Color {", "java", "Color", "enum"},
		{"fun greet(name: String) {", "kotlin", "greet", "function"},
		{"struct node {", "c", "node", "struct"},
		{"func (s *Server) Start() error {", "go", "Start", "method"},
		{"func New() *Server {", "go", "New", "function"},
		{"if (x) {", "javascript", "", ""},
		{"", "java", "", ""},
	}

	n := NewDeclarationNamer()
	for _, tt := range tests {
		name, kind := n.Name(tt.line, tt.lang)
		if name != tt.wantName || kind != tt.wantKind {
			t.Errorf("Name(%q, %s) = (%q, %q), want (%q, %q)",
				tt.line, tt.lang, name, kind, tt.wantName, tt.wantKind)
		}
	}
}

func TestCommentID_Stable(t *testing.T) {
	a := CommentID("doc1", 10)
	if a != CommentID("doc1", 10) {
		t.Error("same inputs should give the same ID")
	}
	if a == CommentID("doc1", 11) {
		t.Error("different lines should give different IDs")
	}
	if len(a) != 16 {
		t.Errorf("ID length = %d, want 16", len(a))
	}
}
