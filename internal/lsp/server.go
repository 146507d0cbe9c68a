// Package lsp serves parse diagnostics and document outlines to editors
// over the language server protocol.
package lsp

import (
	"context"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"gopkg.microglot.org/polyglot.go/internal/compiler/polyglot"
)

const lsName = "polyglot"

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string
	options []polyglot.ParserOption
	log     commonlog.Logger

	lock      sync.Mutex
	documents map[string]*document
}

func NewServer(version string, opts ...polyglot.ParserOption) *Server {
	ls := &Server{
		version:   version,
		options:   opts,
		log:       commonlog.GetLogger("polyglot.lsp"),
		documents: make(map[string]*document),
	}
	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
	}
	ls.server = server.NewServer(&ls.handler, lsName, false)
	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()
	change := protocol.TextDocumentSyncKindFull
	openClose := true
	includeText := true
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &openClose,
		Change:    &change,
		Save: &protocol.SaveOptions{
			IncludeText: &includeText,
		},
	}
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return ls.update(ctx, params.TextDocument.URI, params.TextDocument.Version, params.TextDocument.Text)
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// Sync is full, so the last change holds the whole text.
	switch change := params.ContentChanges[len(params.ContentChanges)-1].(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		return ls.update(ctx, params.TextDocument.URI, params.TextDocument.Version, change.Text)
	case protocol.TextDocumentContentChangeEvent:
		if change.Range == nil {
			return ls.update(ctx, params.TextDocument.URI, params.TextDocument.Version, change.Text)
		}
	}
	ls.log.Warningf("ignoring incremental change to %s", params.TextDocument.URI)
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text == nil {
		return nil
	}
	ls.lock.Lock()
	version := int32(0)
	if doc, ok := ls.documents[params.TextDocument.URI]; ok {
		version = doc.version
	}
	ls.lock.Unlock()
	return ls.update(ctx, params.TextDocument.URI, version, *params.Text)
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.lock.Lock()
	delete(ls.documents, params.TextDocument.URI)
	ls.lock.Unlock()
	ls.publish(ctx, params.TextDocument.URI, []protocol.Diagnostic{})
	return nil
}

func (ls *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	ls.lock.Lock()
	defer ls.lock.Unlock()
	doc, ok := ls.documents[params.TextDocument.URI]
	if !ok || doc.analysis == nil {
		return []protocol.DocumentSymbol{}, nil
	}
	return doc.analysis.Symbols, nil
}

func (ls *Server) update(ctx *glsp.Context, uri string, version int32, text string) error {
	if !isPolyglot(uri) {
		return nil
	}
	analysis, err := Analyze(context.Background(), uri, text, ls.options...)
	if err != nil {
		return err
	}
	ls.log.Debugf("%s: %d diagnostics", uri, len(analysis.Diagnostics))

	ls.lock.Lock()
	if doc, ok := ls.documents[uri]; ok && doc.version > version {
		ls.lock.Unlock()
		return nil
	}
	ls.documents[uri] = &document{uri: uri, version: version, text: text, analysis: analysis}
	ls.lock.Unlock()

	ls.publish(ctx, uri, analysis.Diagnostics)
	return nil
}

func (ls *Server) publish(ctx *glsp.Context, uri string, diagnostics []protocol.Diagnostic) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}
