package statbank

import (
	"strings"
	"testing"
)

func TestUpstreamErrorText(t *testing.T) {
	cases := []struct {
		name, body, contentType, want string
	}{
		{"api message", `{"message":"Table not found"}`, "application/json", "Table not found"},
		{"api code", `{"errorTypeCode":"TABLE-NOTFOUND","message":"Table not found"}`, "", "TABLE-NOTFOUND: Table not found"},
		{"html", "<html><head><title>Bad Gateway</title><style>p{}</style></head><body><p>nginx</p></body></html>", "text/html", "Bad Gateway - nginx"},
		{"plain", "  upstream timeout \n", "text/plain", "upstream timeout"},
		{"empty", "", "", "empty response body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := upstreamErrorText([]byte(tc.body), tc.contentType); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestUpstreamErrorText_Truncates(t *testing.T) {
	got := upstreamErrorText([]byte(strings.Repeat("x", 1000)), "text/plain")
	if len(got) != maxErrorText+3 || !strings.HasSuffix(got, "...") {
		t.Fatalf("len = %d", len(got))
	}
}
