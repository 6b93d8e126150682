package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postingHTML = `<html>
<head><title>Careers | Acme</title></head>
<body>
	<nav>Jobs  Teams  Locations</nav>
	<div class="sidebar">Similar roles</div>
	<main>
		<div class="job-description">
			<h2>About the role</h2>
			<p>Design and operate Go services on PostgreSQL.</p>
			<form>Apply now</form>
		</div>
	</main>
	<footer>Acme Inc.</footer>
</body>
</html>`

func TestURL(t *testing.T) {
	var gotUA, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(postingHTML))
	}))
	defer srv.Close()

	t.Run("ok", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Headers = map[string]string{"Accept-Language": "en-US"}

		res, err := URL(context.Background(), srv.URL+"/jobs/42", opts)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Contains(t, res.ContentType, "text/html")
		assert.Contains(t, res.HTML, "About the role")
		assert.Equal(t, DefaultUserAgent, gotUA)
		assert.Equal(t, "en-US", gotLang)
	})

	t.Run("status error keeps partial result", func(t *testing.T) {
		res, err := URL(context.Background(), srv.URL+"/gone", nil)
		var fetchErr *Error
		require.ErrorAs(t, err, &fetchErr)
		assert.Contains(t, err.Error(), "404")
		require.NotNil(t, res)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := URL(ctx, srv.URL, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestURL_InvalidURL(t *testing.T) {
	for _, raw := range []string{"not-a-valid-url", "file:///etc/passwd", "ftp://example.com/job", "https://"} {
		t.Run(raw, func(t *testing.T) {
			_, err := URL(context.Background(), raw, nil)
			var fetchErr *Error
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, "invalid URL", fetchErr.Message)
		})
	}
}

func TestExtractMainText(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		selectors []string
		noise     []string
		want      []string
		notWant   []string
	}{
		{
			name:      "job posting container",
			html:      postingHTML,
			selectors: JobPostingSelectors(),
			noise:     []string{"form"},
			want:      []string{"About the role", "Go services on PostgreSQL"},
			notWant:   []string{"Similar roles", "Apply now", "Acme Inc."},
		},
		{
			name:      "main element",
			html:      `<html><body><nav>Menu</nav><main><h1>Backend Engineer</h1><p>Remote.</p></main><footer>Legal</footer></body></html>`,
			selectors: DefaultTextSelectors(),
			want:      []string{"Backend Engineer", "Remote."},
			notWant:   []string{"Menu", "Legal"},
		},
		{
			name:      "article element",
			html:      `<html><body><article><h1>SRE</h1><p>On call one week in six.</p></article></body></html>`,
			selectors: DefaultTextSelectors(),
			want:      []string{"SRE", "On call one week in six."},
		},
		{
			name:      "body fallback",
			html:      `<html><body><div>Plain page with the posting text.</div></body></html>`,
			selectors: JobPostingSelectors(),
			want:      []string{"Plain page with the posting text."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := ExtractMainText(tt.html, tt.selectors, tt.noise...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, text, w)
			}
			for _, nw := range tt.notWant {
				assert.NotContains(t, text, nw)
			}
		})
	}
}

func TestExtractMainText_CollapsesWhitespace(t *testing.T) {
	text, err := ExtractMainText("<main><p>Keep\n\n   this</p>\t<p>together</p></main>", DefaultTextSelectors())
	require.NoError(t, err)
	assert.NotContains(t, text, "  ")
	assert.Contains(t, text, "Keep")
	assert.Contains(t, text, "together")
}

func TestSelectors(t *testing.T) {
	assert.Contains(t, DefaultTextSelectors(), "main")
	assert.Contains(t, DefaultTextSelectors(), "article")
	assert.Contains(t, JobPostingSelectors(), ".job-description")
	assert.Contains(t, JobPostingSelectors(), "#job-content")
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"h1 wins", `<html><head><title>Doc</title></head><body><h1> Senior Go Engineer </h1></body></html>`, "Senior Go Engineer"},
		{"og title", `<html><head><meta property="og:title" content="Platform Engineer"><title>Doc</title></head><body></body></html>`, "Platform Engineer"},
		{"document title", `<html><head><title>Careers</title></head><body><p>x</p></body></html>`, "Careers"},
		{"none", `<html><body><p>x</p></body></html>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTitle(tt.html))
		})
	}
}
