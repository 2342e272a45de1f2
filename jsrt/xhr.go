package jsrt

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/dop251/goja"
)

// ready states of an XMLHttpRequest
const (
	xhrUnsent = iota
	xhrOpened
	xhrHeadersReceived
	xhrLoading
	xhrDone
)

// xhrBinding implements the XMLHttpRequest polyfill. Requests are executed
// by the session's Loader on a separate goroutine, results are delivered
// back on the loop.
type xhrBinding struct {
	session *Session
}

type xhrRequest struct {
	binding *xhrBinding
	obj     *goja.Object

	method  string
	url     string
	headers http.Header
	aborted bool

	response  FetchResponse
	listeners map[string][]goja.Value
}

func (x *xhrBinding) register(vm *goja.Runtime) error {
	ctor := vm.ToValue(func(call goja.ConstructorCall) *goja.Object {
		x.construct(vm, call.This)
		return nil
	})

	return vm.Set("XMLHttpRequest", ctor)
}

func (x *xhrBinding) construct(vm *goja.Runtime, obj *goja.Object) {
	req := &xhrRequest{
		binding:   x,
		obj:       obj,
		headers:   http.Header{},
		listeners: map[string][]goja.Value{},
	}

	_ = setAll(obj, map[string]any{
		"readyState":         xhrUnsent,
		"status":             0,
		"statusText":         "",
		"responseType":       "",
		"response":           goja.Null(),
		"responseText":       "",
		"responseURL":        "",
		"onload":             goja.Null(),
		"onerror":            goja.Null(),
		"onloadend":          goja.Null(),
		"onreadystatechange": goja.Null(),

		"open": func(method, url string) {
			req.method = strings.ToUpper(method)
			req.url = url
			req.aborted = false
			req.setReadyState(vm, xhrOpened)
		},

		"setRequestHeader": func(key, value string) {
			req.headers.Add(key, value)
		},

		"getResponseHeader": func(key string) goja.Value {
			if req.response.Headers == nil || req.response.Headers.Get(key) == "" {
				return goja.Null()
			}

			return vm.ToValue(req.response.Headers.Get(key))
		},

		"getAllResponseHeaders": func() string {
			var sb strings.Builder
			for key := range req.response.Headers {
				sb.WriteString(strings.ToLower(key) + ": " + req.response.Headers.Get(key) + "\r\n")
			}

			return sb.String()
		},

		"addEventListener": func(kind string, listener goja.Value) {
			req.listeners[kind] = append(req.listeners[kind], listener)
		},

		"removeEventListener": func(kind string, listener goja.Value) {
			listeners := req.listeners[kind]
			for idx, l := range listeners {
				if l.StrictEquals(listener) {
					req.listeners[kind] = append(listeners[:idx], listeners[idx+1:]...)
					return
				}
			}
		},

		"send": func(call goja.FunctionCall) goja.Value {
			req.send(vm, call.Argument(0))
			return goja.Undefined()
		},

		"abort": func() {
			req.aborted = true
		},
	})
}

// requestBody returns the bytes to send for a body passed to send.
// ArrayBuffers and views on them are sent as raw bytes, everything
// else as its string value.
func requestBody(body goja.Value) []byte {
	if buffer, ok := body.Export().(goja.ArrayBuffer); ok {
		return bytes.Clone(buffer.Bytes())
	}

	if obj, ok := body.(*goja.Object); ok {
		view := obj.Get("buffer")
		if view != nil {
			if buffer, ok := view.Export().(goja.ArrayBuffer); ok {
				offset := obj.Get("byteOffset").ToInteger()
				length := obj.Get("byteLength").ToInteger()
				return bytes.Clone(buffer.Bytes()[offset : offset+length])
			}
		}
	}

	return []byte(body.String())
}

func (r *xhrRequest) send(vm *goja.Runtime, body goja.Value) {
	if r.obj.Get("readyState").ToInteger() != xhrOpened {
		panic(vm.NewTypeError("XMLHttpRequest: send called before open"))
	}

	fetch := FetchRequest{
		Method:  r.method,
		URL:     r.url,
		Headers: r.headers,
	}

	if !goja.IsUndefined(body) && !goja.IsNull(body) {
		fetch.Body = requestBody(body)
	}

	session := r.binding.session

	go func() {
		resp, err := session.opts.Loader.Fetch(session.ctx, fetch)

		session.post(func(vm *goja.Runtime) {
			if r.aborted {
				return
			}

			if err != nil {
				r.fail(vm, err)
				return
			}

			r.complete(vm, resp)
		})
	}()
}

func (r *xhrRequest) complete(vm *goja.Runtime, resp FetchResponse) {
	r.response = resp

	_ = r.obj.Set("status", resp.Status)
	_ = r.obj.Set("statusText", http.StatusText(resp.Status))
	_ = r.obj.Set("responseURL", r.url)

	switch r.obj.Get("responseType").String() {
	case "arraybuffer":
		_ = r.obj.Set("response", vm.NewArrayBuffer(resp.Body))

	case "json":
		parse, _ := goja.AssertFunction(vm.Get("JSON").ToObject(vm).Get("parse"))

		parsed, err := parse(goja.Undefined(), vm.ToValue(string(resp.Body)))
		if err != nil {
			parsed = goja.Null()
		}

		_ = r.obj.Set("response", parsed)

	default:
		text := string(resp.Body)
		_ = r.obj.Set("response", text)
		_ = r.obj.Set("responseText", text)
	}

	r.setReadyState(vm, xhrDone)
	r.dispatch(vm, "load")
	r.dispatch(vm, "loadend")
}

func (r *xhrRequest) fail(vm *goja.Runtime, err error) {
	r.binding.session.opts.Log(LogLevelWarn, "XMLHttpRequest failed: "+err.Error())

	_ = r.obj.Set("status", 0)
	r.setReadyState(vm, xhrDone)
	r.dispatch(vm, "error")
	r.dispatch(vm, "loadend")
}

func (r *xhrRequest) setReadyState(vm *goja.Runtime, state int) {
	_ = r.obj.Set("readyState", state)
	r.dispatch(vm, "readystatechange")
}

// dispatch invokes the on<kind> handler and all listeners added for kind.
func (r *xhrRequest) dispatch(vm *goja.Runtime, kind string) {
	event := vm.NewObject()
	_ = event.Set("type", kind)
	_ = event.Set("target", r.obj)

	handlers := append([]goja.Value{r.obj.Get("on" + kind)}, r.listeners[kind]...)

	for _, handler := range handlers {
		fn, ok := goja.AssertFunction(handler)
		if !ok {
			continue
		}

		if _, err := fn(r.obj, event); err != nil {
			reportException(r.binding.session.opts.Log, "XMLHttpRequest "+kind+" handler", err)
		}
	}
}
