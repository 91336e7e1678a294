package fetch

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/galaxy-steam/buildtool"
	"golang.org/x/xerrors"
)

func TestDecode(t *testing.T) {
	for _, tt := range []struct {
		name        string
		body        []byte
		contentType string
		want        string
		wantErr     bool
	}{
		{
			name: "undeclared utf-8",
			body: []byte("message CMsg { optional string name = 1; } // ü"),
			want: "message CMsg { optional string name = 1; } // ü",
		},

		{
			name:        "declared utf-8",
			body:        []byte("// ünïcode"),
			contentType: "text/plain; charset=UTF-8",
			want:        "// ünïcode",
		},

		{
			name:        "latin-1",
			body:        []byte{'/', '/', ' ', 0xfc},
			contentType: "text/plain; charset=iso-8859-1",
			want:        "// ü",
		},

		{
			name:    "invalid utf-8",
			body:    []byte{0xff, 0xfe, 0xfd},
			wantErr: true,
		},

		{
			name:        "unknown charset",
			body:        []byte("x"),
			contentType: "text/plain; charset=x-no-such-charset",
			wantErr:     true,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.body, tt.contentType)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Decode() = %q, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetch(t *testing.T) {
	const body = "import \"steammessages_base.steamclient.proto\";\n"
	mux := http.NewServeMux()
	mux.HandleFunc("/plain.proto", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(body))
	})
	mux.HandleFunc("/gzipped.proto", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept-Encoding") != "gzip" {
			http.Error(w, "gzip not negotiated", http.StatusBadRequest)
			return
		}
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		zw.Write([]byte(body))
		zw.Close()
		w.Header().Set("Content-Encoding", "gzip")
		w.Write(buf.Bytes())
	})
	mux.HandleFunc("/latin1.proto", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=ISO-8859-1")
		w.Write([]byte{'/', '/', ' ', 0xe9})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	var f Fetcher
	for _, tt := range []struct {
		path string
		want string
	}{
		{"/plain.proto", body},
		{"/gzipped.proto", body},
		{"/latin1.proto", "// é"},
	} {
		t.Run(tt.path, func(t *testing.T) {
			got, err := f.Fetch(ctx, srv.URL+tt.path)
			if err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			if got != tt.want {
				t.Errorf("Fetch(%s) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}

	t.Run("not found", func(t *testing.T) {
		_, err := f.Fetch(ctx, srv.URL+"/missing.proto")
		if !xerrors.Is(err, buildtool.NetworkFailure) {
			t.Fatalf("Fetch(missing) = %v, want %v", err, buildtool.NetworkFailure)
		}
	})
}

func TestFetchDecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte{0xc3, 0x28})
	}))
	defer srv.Close()

	var f Fetcher
	_, err := f.Fetch(context.Background(), srv.URL+"/broken.proto")
	if !xerrors.Is(err, buildtool.DecodeFailure) {
		t.Fatalf("Fetch(broken) = %v, want %v", err, buildtool.DecodeFailure)
	}
}

func TestFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/gc.proto"
	srv.Close()

	var f Fetcher
	_, err := f.Fetch(context.Background(), url)
	if !xerrors.Is(err, buildtool.NetworkFailure) {
		t.Fatalf("Fetch(closed server) = %v, want %v", err, buildtool.NetworkFailure)
	}
}
