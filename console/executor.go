package console

import (
	"bytes"
	"fmt"
	"github.com/sirupsen/logrus"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

var consoleLog = logrus.WithField("module", "console")

const transportTimeout = 30 * time.Second

// Transport executes one HTTP request. It is acquired per action and must be
// shut down by the caller when the action returns.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
	Shutdown()
}

type httpTransport struct {
	client *http.Client
}

func (t *httpTransport) Do(req *http.Request) (*http.Response, error) {
	return t.client.Do(req)
}

func (t *httpTransport) Shutdown() {
	t.client.CloseIdleConnections()
}

// Part is one value of a multipart POST body.
type Part interface {
	write(w *multipart.Writer, name string) error
}

// TextPart is a plain form field.
type TextPart string

func (p TextPart) write(w *multipart.Writer, name string) error {
	return w.WriteField(name, string(p))
}

// FilePart is a pre-built content body, e.g. a bundle artifact.
type FilePart struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

func (p FilePart) write(w *multipart.Writer, name string) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, name, p.Filename))
	h.Set("Content-Type", p.ContentType)
	fw, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(fw, p.Content)
	return err
}

// Executor runs HTTP actions against fleet members and maintains their
// liveness flags. The zero value uses the default net/http transport.
type Executor struct {
	// NewTransport overrides transport construction, mainly for tests.
	NewTransport func(cfg *ServerConfig) Transport
}

func (e *Executor) transport(cfg *ServerConfig) Transport {
	if e.NewTransport != nil {
		return e.NewTransport(cfg)
	}
	return &httpTransport{client: &http.Client{Timeout: transportTimeout}}
}

// DoHTTP runs action with a freshly acquired transport, releasing it on every
// exit path. A server already marked inactive is answered synthetically
// without any network traffic.
func (e *Executor) DoHTTP(cfg *ServerConfig, action func(Transport) Response) Response {
	if !cfg.Active {
		return Response{Code: StatusClientTimeout, Body: fmt.Sprintf("server %s is inactive", cfg.Name)}
	}
	t := e.transport(cfg)
	defer t.Shutdown()
	return action(t)
}

// DoGet fetches uri from the server. An empty uri yields a synthetic 404. A
// transport-level timeout marks the server inactive for the rest of the run.
func (e *Executor) DoGet(cfg *ServerConfig, uri string) Response {
	if uri == "" {
		return Response{Code: http.StatusNotFound, Body: "no URI given"}
	}
	resp := e.DoHTTP(cfg, func(t Transport) Response {
		req, err := http.NewRequest(http.MethodGet, uri, nil)
		if err != nil {
			return Response{Code: 0, Body: err.Error()}
		}
		return execute(t, cfg, req)
	})
	e.noteTimeout(cfg, resp)
	return resp
}

// DoPost sends a browser-compatible multipart POST built from parts. A nil or
// empty parts map sends an empty multipart body.
func (e *Executor) DoPost(cfg *ServerConfig, uri string, parts map[string]Part) Response {
	resp := e.DoHTTP(cfg, func(t Transport) Response {
		body := new(bytes.Buffer)
		w := multipart.NewWriter(body)
		for name, part := range parts {
			if err := part.write(w, name); err != nil {
				return Response{Code: 0, Body: fmt.Sprintf("cannot encode part `%s`: %s", name, err)}
			}
		}
		if err := w.Close(); err != nil {
			return Response{Code: 0, Body: err.Error()}
		}
		req, err := http.NewRequest(http.MethodPost, uri, body)
		if err != nil {
			return Response{Code: 0, Body: err.Error()}
		}
		req.Header.Set("Content-Type", w.FormDataContentType())
		return execute(t, cfg, req)
	})
	e.noteTimeout(cfg, resp)
	return resp
}

// MakePath idempotently ensures an intermediate path exists by POSTing with
// no body parts. 200 and 201 both mean the path is present afterwards.
func (e *Executor) MakePath(cfg *ServerConfig, uri string) Response {
	return e.DoPost(cfg, strings.TrimSuffix(uri, "/"), nil)
}

func (e *Executor) noteTimeout(cfg *ServerConfig, resp Response) {
	if resp.Code == StatusClientTimeout && cfg.Active {
		consoleLog.Warnf("server %s timed out, deactivating it for the rest of this run: %s", cfg.Name, resp.Body)
		cfg.Active = false
	}
}

func execute(t Transport, cfg *ServerConfig, req *http.Request) Response {
	req.SetBasicAuth(cfg.Username, cfg.Password)
	resp, err := t.Do(req)
	if err != nil {
		return Response{Code: StatusClientTimeout, Body: err.Error()}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{Code: StatusClientTimeout, Body: err.Error()}
	}
	return Response{Code: resp.StatusCode, Body: string(body)}
}
