package jsrt

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dop251/goja"
	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultCacheSize = 32

// FetchRequest describes a request for a script or resource.
type FetchRequest struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

type FetchResponse struct {
	Status  int
	Headers http.Header
	Body    []byte
}

type programKey struct {
	url  string
	hash [sha256.Size]byte
}

// Loader resolves resource urls against a local script root or the network,
// and keeps compiled programs around so a reload does not need to compile
// unchanged scripts again. A Loader is safe for concurrent use.
type Loader struct {
	root     string
	client   *http.Client
	programs *lru.Cache[programKey, *goja.Program]
}

func NewLoader(root string, cacheSize int) *Loader {
	programs, _ := lru.New[programKey, *goja.Program](max(cacheSize, 1))

	return &Loader{
		root:     root,
		client:   &http.Client{Timeout: 30 * time.Second},
		programs: programs,
	}
}

// Resolve maps a url to a path on the local file system. Returns false for
// remote urls.
func (l *Loader) Resolve(url string) (string, bool) {
	switch {
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		return "", false

	case strings.HasPrefix(url, "app://"):
		rel := strings.TrimLeft(strings.TrimPrefix(url, "app://"), "/")
		return filepath.Join(l.root, filepath.FromSlash(rel)), true

	case strings.HasPrefix(url, "file://"):
		return filepath.FromSlash(strings.TrimPrefix(url, "file://")), true

	case filepath.IsAbs(url):
		return url, true

	default:
		return filepath.Join(l.root, filepath.FromSlash(url)), true
	}
}

// Fetch executes the given request. Missing local files are reported with
// a 404 status, not as an error.
func (l *Loader) Fetch(ctx context.Context, req FetchRequest) (FetchResponse, error) {
	if path, local := l.Resolve(req.URL); local {
		return l.fetchFile(path)
	}

	return l.fetchRemote(ctx, req)
}

func (l *Loader) fetchFile(path string) (FetchResponse, error) {
	body, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return FetchResponse{Status: http.StatusNotFound}, nil

	case err != nil:
		return FetchResponse{}, fmt.Errorf("read %q: %w", path, err)
	}

	return FetchResponse{Status: http.StatusOK, Headers: http.Header{}, Body: body}, nil
}

func (l *Loader) fetchRemote(ctx context.Context, req FetchRequest) (FetchResponse, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return FetchResponse{}, fmt.Errorf("create request: %w", err)
	}

	for key, values := range req.Headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	resp, err := l.client.Do(httpReq)
	if err != nil {
		return FetchResponse{}, fmt.Errorf("%s %s: %w", method, req.URL, err)
	}

	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResponse{}, fmt.Errorf("read response: %w", err)
	}

	return FetchResponse{Status: resp.StatusCode, Headers: resp.Header, Body: content}, nil
}

// Compile fetches and compiles the script at the given url. Programs are
// cached by url and content, compiled programs are not bound to a runtime.
func (l *Loader) Compile(ctx context.Context, url string) (*goja.Program, error) {
	resp, err := l.Fetch(ctx, FetchRequest{Method: http.MethodGet, URL: url})
	if err != nil {
		return nil, err
	}

	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("fetch %q: status %d", url, resp.Status)
	}

	key := programKey{url: url, hash: sha256.Sum256(resp.Body)}

	if program, ok := l.programs.Get(key); ok {
		return program, nil
	}

	program, err := goja.Compile(url, string(resp.Body), false)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	l.programs.Add(key, program)

	return program, nil
}
