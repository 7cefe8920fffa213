package reqctx_test

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flare/core/reqctx"
	"github.com/dmitrymomot/flare/core/response"
)

func TestStatusResolution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		staged     int
		opts       []reqctx.RespondOption
		wantStatus int
		wantText   string
	}{
		{
			name:       "default_200",
			wantStatus: http.StatusOK,
			wantText:   "OK",
		},
		{
			name:       "staged_status",
			staged:     http.StatusCreated,
			wantStatus: http.StatusCreated,
			wantText:   "Created",
		},
		{
			name:       "override_status_keeps_staged_text",
			staged:     http.StatusCreated,
			opts:       []reqctx.RespondOption{reqctx.WithStatus(http.StatusNotFound)},
			wantStatus: http.StatusNotFound,
			wantText:   "Created",
		},
		{
			name:       "explicit_text_wins_over_staged_text",
			staged:     http.StatusCreated,
			opts:       []reqctx.RespondOption{reqctx.WithStatus(http.StatusAccepted), reqctx.WithStatusText("Queued")},
			wantStatus: http.StatusAccepted,
			wantText:   "Queued",
		},
		{
			name:       "override_without_staged",
			opts:       []reqctx.RespondOption{reqctx.WithStatus(http.StatusAccepted)},
			wantStatus: http.StatusAccepted,
			wantText:   "Accepted",
		},
		{
			name:       "explicit_status_text",
			staged:     http.StatusCreated,
			opts:       []reqctx.RespondOption{reqctx.WithStatusText("Made It")},
			wantStatus: http.StatusCreated,
			wantText:   "Made It",
		},
		{
			name:       "zero_override_keeps_staged",
			staged:     http.StatusNotFound,
			opts:       []reqctx.RespondOption{reqctx.WithStatus(0)},
			wantStatus: http.StatusNotFound,
			wantText:   "Not Found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := reqctx.New(newRequest(t))
			if tt.staged != 0 {
				c.SetStatus(tt.staged)
			}

			resp, err := c.Body(response.EmptyBody, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.Status())
			assert.Equal(t, tt.wantText, resp.StatusText())
		})
	}
}

func TestHeaderMerge(t *testing.T) {
	t.Parallel()

	c := reqctx.New(newRequest(t))
	c.SetHeader("X-Shared", "staged")
	c.SetHeader("X-Staged-Only", "kept")

	resp, err := c.Text("hi", reqctx.WithHeaders(map[string]string{
		"X-Shared":        "override",
		"X-Override-Only": "new",
	}))
	require.NoError(t, err)

	assert.Equal(t, "override", resp.Header().Get("X-Shared"))
	assert.Equal(t, "kept", resp.Header().Get("X-Staged-Only"))
	assert.Equal(t, "new", resp.Header().Get("X-Override-Only"))

	// Staged state is not affected by overrides.
	assert.Equal(t, "staged", c.Header().Get("X-Shared"))
}

func TestContentLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		call func(c *reqctx.Context) (*response.Response, error)
		want string
	}{
		{
			name: "ascii_text",
			call: func(c *reqctx.Context) (*response.Response, error) { return c.Text("hello") },
			want: "5",
		},
		{
			name: "utf8_text",
			call: func(c *reqctx.Context) (*response.Response, error) { return c.Text("héllo") },
			want: "6",
		},
		{
			name: "emoji_html",
			call: func(c *reqctx.Context) (*response.Response, error) { return c.HTML("<b>🌍</b>") },
			want: "11",
		},
		{
			name: "binary",
			call: func(c *reqctx.Context) (*response.Response, error) {
				return c.Body(response.BinaryBody([]byte{0x00, 0xff, 0x10}))
			},
			want: "3",
		},
		{
			name: "empty_body",
			call: func(c *reqctx.Context) (*response.Response, error) { return c.Body(response.EmptyBody) },
			want: "0",
		},
		{
			name: "empty_text",
			call: func(c *reqctx.Context) (*response.Response, error) { return c.Text("") },
			want: "0",
		},
		{
			name: "sized_stream",
			call: func(c *reqctx.Context) (*response.Response, error) {
				return c.Body(response.StreamBody(strings.NewReader("streamed")))
			},
			want: "8",
		},
		{
			name: "caller_value_is_replaced",
			call: func(c *reqctx.Context) (*response.Response, error) {
				return c.Text("héllo", reqctx.WithHeader("Content-Length", "999"))
			},
			want: "6",
		},
		{
			name: "redirect",
			call: func(c *reqctx.Context) (*response.Response, error) { return c.Redirect("/foo") },
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := reqctx.New(newRequest(t))
			c.SetHeader("Content-Length", "12345")

			resp, err := tt.call(c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Header().Get("Content-Length"))
		})
	}
}

func TestContentLengthUnknownStream(t *testing.T) {
	t.Parallel()

	c := reqctx.New(newRequest(t))
	pr, pw := io.Pipe()
	defer pr.Close()
	defer pw.Close()

	resp, err := c.Body(response.StreamBody(pr), reqctx.WithHeader("Content-Length", "10"))
	require.NoError(t, err)
	assert.Empty(t, resp.Header().Values("Content-Length"))
}

func TestBodyIsVerbatim(t *testing.T) {
	t.Parallel()

	c := reqctx.New(newRequest(t))
	c.SetHeader("X-Staged", "yes")

	resp, err := c.Body(response.TextBody("raw"))
	require.NoError(t, err)
	assert.Empty(t, resp.Header().Get("Content-Type"))
	assert.Equal(t, "yes", resp.Header().Get("X-Staged"))
	assert.Equal(t, "raw", string(resp.Body().Bytes()))
}

func TestContentTypeDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		call func(c *reqctx.Context, opts ...reqctx.RespondOption) (*response.Response, error)
		want string
	}{
		{
			name: "text",
			call: func(c *reqctx.Context, opts ...reqctx.RespondOption) (*response.Response, error) {
				return c.Text("t", opts...)
			},
			want: reqctx.ContentTypeText,
		},
		{
			name: "html",
			call: func(c *reqctx.Context, opts ...reqctx.RespondOption) (*response.Response, error) {
				return c.HTML("<p>", opts...)
			},
			want: reqctx.ContentTypeHTML,
		},
		{
			name: "json",
			call: func(c *reqctx.Context, opts ...reqctx.RespondOption) (*response.Response, error) {
				return c.JSON(map[string]int{"a": 1}, opts...)
			},
			want: reqctx.ContentTypeJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name+"_default", func(t *testing.T) {
			t.Parallel()

			resp, err := tt.call(reqctx.New(newRequest(t)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Header().Get("Content-Type"))
		})

		t.Run(tt.name+"_caller_wins", func(t *testing.T) {
			t.Parallel()

			resp, err := tt.call(reqctx.New(newRequest(t)), reqctx.WithHeader("content-type", "application/x-custom"))
			require.NoError(t, err)
			assert.Equal(t, "application/x-custom", resp.Header().Get("Content-Type"))
		})

		t.Run(tt.name+"_replaces_staged", func(t *testing.T) {
			t.Parallel()

			c := reqctx.New(newRequest(t))
			c.SetHeader("Content-Type", "application/x-staged")

			resp, err := tt.call(c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Header().Get("Content-Type"))
		})
	}
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("compact", func(t *testing.T) {
		t.Parallel()

		c := reqctx.New(newRequest(t))
		resp, err := c.JSON(map[string]int{"a": 1})
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, string(resp.Body().Bytes()))
		assert.Equal(t, "7", resp.Header().Get("Content-Length"))
	})

	t.Run("pretty_default_indent", func(t *testing.T) {
		t.Parallel()

		c := reqctx.New(newRequest(t))
		c.SetPrettyPrint(true)

		resp, err := c.JSON(map[string]int{"a": 1})
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"a\": 1\n}", string(resp.Body().Bytes()))
	})

	t.Run("pretty_custom_indent", func(t *testing.T) {
		t.Parallel()

		c := reqctx.New(newRequest(t))
		c.SetPrettyPrint(true, 4)

		resp, err := c.JSON([]int{1})
		require.NoError(t, err)
		assert.Equal(t, "[\n    1\n]", string(resp.Body().Bytes()))
	})

	t.Run("pretty_disabled_again", func(t *testing.T) {
		t.Parallel()

		c := reqctx.New(newRequest(t))
		c.SetPrettyPrint(true, 4)
		c.SetPrettyPrint(false)

		resp, err := c.JSON(map[string]int{"a": 1})
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, string(resp.Body().Bytes()))
	})

	t.Run("pretty_option_at_construction", func(t *testing.T) {
		t.Parallel()

		c := reqctx.New(newRequest(t), reqctx.WithPrettyPrint(2))

		resp, err := c.JSON(map[string]int{"a": 1})
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"a\": 1\n}", string(resp.Body().Bytes()))
	})

	t.Run("html_is_not_escaped", func(t *testing.T) {
		t.Parallel()

		c := reqctx.New(newRequest(t))
		resp, err := c.JSON(map[string]string{"html": "<b>&</b>"})
		require.NoError(t, err)
		assert.Equal(t, `{"html":"<b>&</b>"}`, string(resp.Body().Bytes()))
	})

	t.Run("structured_values", func(t *testing.T) {
		t.Parallel()

		type item struct {
			Name string `json:"name"`
		}

		values := []any{
			nil,
			item{Name: "x"},
			&item{Name: "y"},
			(*item)(nil),
			[]string{"a"},
			[2]int{1, 2},
			map[string]any{"k": true},
		}
		for _, v := range values {
			_, err := reqctx.New(newRequest(t)).JSON(v)
			assert.NoError(t, err, "%T", v)
		}
	})

	t.Run("primitives_are_rejected", func(t *testing.T) {
		t.Parallel()

		for _, v := range []any{"text", 42, 3.14, true} {
			resp, err := reqctx.New(newRequest(t)).JSON(v)
			assert.ErrorIs(t, err, reqctx.ErrTypeKind, "%T", v)
			assert.Nil(t, resp)
		}
	})

	t.Run("encode_error", func(t *testing.T) {
		t.Parallel()

		_, err := reqctx.New(newRequest(t)).JSON(map[string]any{"ch": make(chan int)})
		require.Error(t, err)
		assert.NotErrorIs(t, err, reqctx.ErrTypeKind)
	})
}

func TestIndependentFinalization(t *testing.T) {
	t.Parallel()

	c := reqctx.New(newRequest(t))

	c.SetHeader("X-Step", "one")
	first, err := c.JSON(map[string]int{"n": 1})
	require.NoError(t, err)

	c.SetHeader("X-Step", "two")
	c.SetHeader("X-Extra", "added")
	second, err := c.JSON(map[string]int{"n": 2})
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, "one", first.Header().Get("X-Step"))
	assert.Empty(t, first.Header().Get("X-Extra"))
	assert.Equal(t, "two", second.Header().Get("X-Step"))
	assert.Equal(t, "added", second.Header().Get("X-Extra"))
}

func TestFinalizationDoesNotTouchBound(t *testing.T) {
	t.Parallel()

	bound := response.New(response.TextBody("upstream"), response.Init{Status: http.StatusAccepted})
	c := reqctx.New(newRequest(t), reqctx.WithResponse(bound))
	c.SetHeader("X-Shared", "yes")

	resp, err := c.JSON(map[string]int{"a": 1}, reqctx.WithStatus(http.StatusCreated))
	require.NoError(t, err)

	assert.NotSame(t, bound, resp)
	assert.Equal(t, http.StatusAccepted, bound.Status())
	assert.Empty(t, bound.Header().Get("Content-Type"))
	assert.Empty(t, bound.Header().Get("Content-Length"))
	assert.Equal(t, "upstream", string(bound.Body().Bytes()))
	assert.Equal(t, http.StatusCreated, resp.Status())
	assert.Equal(t, "yes", resp.Header().Get("X-Shared"))
}

func TestRedirect(t *testing.T) {
	t.Parallel()

	t.Run("relative_location", func(t *testing.T) {
		t.Parallel()

		c := reqctx.New(newRequest(t))
		resp, err := c.Redirect("/foo")
		require.NoError(t, err)

		assert.Equal(t, http.StatusFound, resp.Status())
		assert.Equal(t, "https://example.com/foo", resp.Header().Get("Location"))
		assert.True(t, resp.Body().IsEmpty())
		assert.Equal(t, "0", resp.Header().Get("Content-Length"))
	})

	t.Run("absolute_location_unchanged", func(t *testing.T) {
		t.Parallel()

		c := reqctx.New(newRequest(t))
		resp, err := c.Redirect("https://other.com/x")
		require.NoError(t, err)
		assert.Equal(t, "https://other.com/x", resp.Header().Get("Location"))
	})

	t.Run("explicit_status", func(t *testing.T) {
		t.Parallel()

		c := reqctx.New(newRequest(t))
		resp, err := c.Redirect("/moved", http.StatusMovedPermanently)
		require.NoError(t, err)
		assert.Equal(t, http.StatusMovedPermanently, resp.Status())
		assert.Equal(t, "Moved Permanently", resp.StatusText())
	})

	t.Run("staged_status_is_not_inherited", func(t *testing.T) {
		t.Parallel()

		c := reqctx.New(newRequest(t))
		c.SetStatus(http.StatusCreated)

		resp, err := c.Redirect("/foo")
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.Status())
		assert.Equal(t, "Found", resp.StatusText())
	})

	t.Run("staged_headers_are_kept", func(t *testing.T) {
		t.Parallel()

		c := reqctx.New(newRequest(t))
		c.SetHeader("X-Request-ID", "abc")
		c.SetHeader("Location", "/staged")

		resp, err := c.Redirect("/foo")
		require.NoError(t, err)
		assert.Equal(t, "abc", resp.Header().Get("X-Request-ID"))
		assert.Equal(t, "https://example.com/foo", resp.Header().Get("Location"))
	})

	t.Run("custom_url_checker", func(t *testing.T) {
		t.Parallel()

		c := reqctx.New(newRequest(t), reqctx.WithURLChecker(func(string) bool { return true }))
		resp, err := c.Redirect("/foo")
		require.NoError(t, err)
		assert.Equal(t, "/foo", resp.Header().Get("Location"))
	})
}

func TestRespond(t *testing.T) {
	t.Parallel()

	t.Run("type_kind_errors", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			kind    reqctx.Kind
			payload any
		}{
			{reqctx.KindText, 123},
			{reqctx.KindText, []byte("bytes")},
			{reqctx.KindHTML, 1.5},
			{reqctx.KindJSON, "string"},
			{reqctx.KindJSON, 7},
			{reqctx.KindRedirect, 42},
			{reqctx.KindRaw, 42},
			{reqctx.KindRaw, map[string]int{}},
		}

		for _, tt := range tests {
			resp, err := reqctx.New(newRequest(t)).Respond(tt.kind, tt.payload)
			assert.ErrorIs(t, err, reqctx.ErrTypeKind, "%s %T", tt.kind, tt.payload)
			assert.Nil(t, resp)
		}
	})

	t.Run("unknown_kind", func(t *testing.T) {
		t.Parallel()

		_, err := reqctx.New(newRequest(t)).Respond(reqctx.Kind(99), "x")
		assert.ErrorIs(t, err, reqctx.ErrUnknownKind)
	})

	t.Run("dispatches_to_typed_methods", func(t *testing.T) {
		t.Parallel()

		c := reqctx.New(newRequest(t))

		resp, err := c.Respond(reqctx.KindText, "hi")
		require.NoError(t, err)
		assert.Equal(t, reqctx.ContentTypeText, resp.Header().Get("Content-Type"))

		resp, err = c.Respond(reqctx.KindHTML, "<p>hi</p>")
		require.NoError(t, err)
		assert.Equal(t, reqctx.ContentTypeHTML, resp.Header().Get("Content-Type"))

		resp, err = c.Respond(reqctx.KindJSON, map[string]int{"a": 1})
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, string(resp.Body().Bytes()))

		resp, err = c.Respond(reqctx.KindRedirect, "/foo", reqctx.WithStatus(http.StatusSeeOther))
		require.NoError(t, err)
		assert.Equal(t, http.StatusSeeOther, resp.Status())
		assert.Equal(t, "https://example.com/foo", resp.Header().Get("Location"))
	})

	t.Run("raw_payloads", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name    string
			payload any
			length  string
		}{
			{"nil", nil, "0"},
			{"string", "héllo", "6"},
			{"bytes", []byte{1, 2, 3}, "3"},
			{"reader", bytes.NewReader([]byte("abcd")), "4"},
			{"body", response.TextBody("xy"), "2"},
			{"nil_buffer", (*bytes.Buffer)(nil), "0"},
			{"nil_reader", (*strings.Reader)(nil), "0"},
		}

		for _, tt := range tests {
			resp, err := reqctx.New(newRequest(t)).Respond(reqctx.KindRaw, tt.payload)
			require.NoError(t, err, tt.name)
			assert.Equal(t, tt.length, resp.Header().Get("Content-Length"), tt.name)
			assert.Empty(t, resp.Header().Get("Content-Type"), tt.name)
		}
	})
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "raw", reqctx.KindRaw.String())
	assert.Equal(t, "text", reqctx.KindText.String())
	assert.Equal(t, "json", reqctx.KindJSON.String())
	assert.Equal(t, "html", reqctx.KindHTML.String())
	assert.Equal(t, "redirect", reqctx.KindRedirect.String())
	assert.Equal(t, "kind(42)", reqctx.Kind(42).String())
}
