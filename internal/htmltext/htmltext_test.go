package htmltext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"paragraph", "<p>x</p>", "x"},
		{"whitespace collapse", "<p>  hello \n\t world  </p>", "hello world"},
		{"line break", "a<br>b", "a\nb"},
		{"paragraphs", "<p>one</p><p>two</p>", "one\n\ntwo"},
		{"heading and link", `<h1>Hello</h1><p>World <a href="https://x.io">link</a></p>`, "HELLO\n\nWorld link [https://x.io]"},
		{"bare link", `<a href="https://x.io">https://x.io</a>`, "https://x.io"},
		{"mailto", `<a href="mailto:ed@example.com">ed@example.com</a>`, "ed@example.com"},
		{"anchor only", `<a href="#top">Top</a>`, "Top"},
		{"unordered list", "<ul><li>one</li><li>two</li></ul>", "* one\n* two"},
		{"ordered list", "<ol><li>one</li><li>two</li></ol>", "1. one\n2. two"},
		{"image alt", `<p><img src="a.png" alt="Logo"></p>`, "Logo"},
		{"script dropped", "<script>alert(1)</script><p>safe</p>", "safe"},
		{"style dropped", "<style>p{color:red}</style><p>safe</p>", "safe"},
		{
			"table columns",
			"<table><tr><th>Name</th><th>Qty</th></tr><tr><td>Apple</td><td>3</td></tr></table>",
			"NAME    QTY\nApple   3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertLayoutTable(t *testing.T) {
	html := `<table><tr><td>
		<h2>Weekly news</h2>
		<p>Top story of the week.</p>
	</td></tr></table>`

	got := ConvertString(html)
	assert.Contains(t, got, "WEEKLY NEWS")
	assert.Contains(t, got, "Top story of the week.")
}
