package docparser

import (
	"reflect"
	"sync"
	"testing"

	"apidoc/internal/domain"
)

const fullComment = "/**\n" +
	" * Adds two numbers.\n" +
	" * Works with integers.\n" +
	" *\n" +
	" * @param {number} a the first operand\n" +
	" * @param {number} b the second\n" +
	" *   operand continues\n" +
	" * @returns {number} the sum\n" +
	" * ```js\n" +
	" * add(1, 2)\n" +
	" *\n" +
	" *   // => 3\n" +
	" * ```\n" +
	" */"

func TestParse_FullComment(t *testing.T) {
	result := Parse(fullComment)
	if result.Error != nil {
		t.Fatalf("unexpected error: %v", result.Error)
	}

	want := []domain.CommentPart{
		{Kind: domain.PartText, Text: "Adds two numbers.\nWorks with integers."},
		{Kind: domain.PartTag, Name: "param", Type: "number", Text: "a the first operand"},
		{Kind: domain.PartTag, Name: "param", Type: "number", Text: "b the second\noperand continues"},
		{Kind: domain.PartTag, Name: "returns", Type: "number", Text: "the sum"},
		{Kind: domain.PartCode, Lang: "js", Text: "add(1, 2)\n\n  // => 3"},
	}
	if !reflect.DeepEqual(result.Parts, want) {
		t.Errorf("parts =\n%#v\nwant\n%#v", result.Parts, want)
	}
}

func TestParse_Forms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []domain.CommentPart
	}{
		{
			name:  "inline",
			input: "/** Returns the id. */",
			want:  []domain.CommentPart{{Kind: domain.PartText, Text: "Returns the id."}},
		},
		{
			name:  "inline empty",
			input: "/** */",
			want:  []domain.CommentPart{},
		},
		{
			name:  "lead text",
			input: "/** Summary line\n * more detail\n *\n * @since 2.0\n */",
			want: []domain.CommentPart{
				{Kind: domain.PartText, Text: "Summary line\nmore detail"},
				{Kind: domain.PartTag, Name: "since", Text: "2.0"},
			},
		},
		{
			name:  "blank lines only",
			input: "/**\n *\n * \n */",
			want:  []domain.CommentPart{},
		},
		{
			name:  "two paragraphs",
			input: "/**\n * First.\n *\n * Second.\n */",
			want: []domain.CommentPart{
				{Kind: domain.PartText, Text: "First."},
				{Kind: domain.PartText, Text: "Second."},
			},
		},
		{
			name:  "bare tag with trailing space",
			input: "/**\n * @deprecated  \n */",
			want:  []domain.CommentPart{{Kind: domain.PartTag, Name: "deprecated"}},
		},
		{
			name:  "code without language",
			input: "/**\n * ```\n * x()\n * ```\n */",
			want:  []domain.CommentPart{{Kind: domain.PartCode, Text: "x()"}},
		},
		{
			name:  "email address in text",
			input: "/**\n * Mail dev@example.com for help.\n */",
			want:  []domain.CommentPart{{Kind: domain.PartText, Text: "Mail dev@example.com for help."}},
		},
		{
			name:  "inline tag",
			input: "/** @internal */",
			want:  []domain.CommentPart{{Kind: domain.PartTag, Name: "internal"}},
		},
		{
			name:  "inline tag with text",
			input: "/** @deprecated use bar */",
			want:  []domain.CommentPart{{Kind: domain.PartTag, Name: "deprecated", Text: "use bar"}},
		},
		{
			name:  "lead tag with continuation",
			input: "/** @param {string} name the user\n * name\n */",
			want:  []domain.CommentPart{{Kind: domain.PartTag, Name: "param", Type: "string", Text: "name the user\nname"}},
		},
		{
			name:  "close after text",
			input: "/**\n * Returns the id. */",
			want:  []domain.CommentPart{{Kind: domain.PartText, Text: "Returns the id."}},
		},
		{
			name:  "close after paragraph line",
			input: "/**\n * First.\n * Second. */",
			want:  []domain.CommentPart{{Kind: domain.PartText, Text: "First.\nSecond."}},
		},
		{
			name:  "close after tag",
			input: "/**\n * @returns the id */",
			want:  []domain.CommentPart{{Kind: domain.PartTag, Name: "returns", Text: "the id"}},
		},
		{
			name:  "double star close",
			input: "/**\n * Foo\n **/",
			want:  []domain.CommentPart{{Kind: domain.PartText, Text: "Foo"}},
		},
		{
			name:  "inline link is not a type",
			input: "/**\n * @see {@link Foo}\n */",
			want:  []domain.CommentPart{{Kind: domain.PartTag, Name: "see", Text: "{@link Foo}"}},
		},
		{
			name:  "crlf line endings",
			input: "/**\r\n * Windows.\r\n */",
			want:  []domain.CommentPart{{Kind: domain.PartText, Text: "Windows."}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.input)
			if result.Error != nil {
				t.Fatalf("unexpected error: %v", result.Error)
			}
			if !reflect.DeepEqual(result.Parts, tt.want) {
				t.Errorf("parts = %#v, want %#v", result.Parts, tt.want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  domain.ParseError
	}{
		{
			name:  "empty input",
			input: "",
			want:  domain.ParseError{Line: 1, Start: 0, End: 0, Message: "Unbalanced comment"},
		},
		{
			name:  "missing close",
			input: "/**\n * text\n",
			want:  domain.ParseError{Line: 1, Start: 0, End: 12, Message: "Unbalanced comment"},
		},
		{
			name:  "tag without name",
			input: "/**\n * @\n */",
			want:  domain.ParseError{Line: 2, Start: 8, End: 9, Message: "expected text, got newline"},
		},
		{
			name:  "unterminated code block",
			input: "/**\n * ```\n * code\n */",
			want:  domain.ParseError{Line: 4, Start: 20, End: 22, Message: "expected star, got comment end"},
		},
		{
			name:  "trailing content",
			input: "/** x */ y",
			want:  domain.ParseError{Line: 1, Start: 8, End: 9, Message: "unexpected whitespace after end of comment"},
		},
		{
			name:  "not a doc comment",
			input: "/* x */",
			want:  domain.ParseError{Line: 1, Start: 0, End: 1, Message: "expected comment start, got text"},
		},
		{
			name:  "no separator after open",
			input: "/**x */",
			want:  domain.ParseError{Line: 1, Start: 3, End: 4, Message: "unexpected text"},
		},
		{
			name:  "inline tag without name",
			input: "/** @ */",
			want:  domain.ParseError{Line: 1, Start: 5, End: 6, Message: "expected text, got whitespace"},
		},
		{
			name:  "wide indentation",
			input: "/**\n  * x\n */",
			want:  domain.ParseError{Line: 2, Start: 4, End: 6, Message: "expected whitespace of length 1, got length 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.input)
			if result.Error == nil {
				t.Fatalf("expected error, got parts %v", result.Parts)
			}
			if *result.Error != tt.want {
				t.Errorf("error = %+v, want %+v", *result.Error, tt.want)
			}
			if result.Parts == nil || len(result.Parts) != 0 {
				t.Errorf("parts = %v, want empty slice", result.Parts)
			}
		})
	}
}

func TestParse_Idempotent(t *testing.T) {
	first := Parse(fullComment)
	second := Parse(fullComment)
	if !reflect.DeepEqual(first, second) {
		t.Error("parsing the same text twice gave different results")
	}
}

func TestParse_Concurrent(t *testing.T) {
	want := Parse(fullComment)

	var wg sync.WaitGroup
	results := make([]domain.ParserResult, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = NewParser().Parse(fullComment)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if !reflect.DeepEqual(got, want) {
			t.Errorf("result %d differs from the sequential parse", i)
		}
	}
}
