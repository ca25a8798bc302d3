// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the note commands for one folder over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/memopad/internal/apperr"
	"github.com/starford/memopad/internal/notes"
)

// Server wraps the MCP server with memo tools bound to a single folder.
type Server struct {
	mcp    *server.MCPServer
	notes  *notes.Service
	folder string
}

// New creates an MCP server whose tools only touch notes inside folder.
func New(folder string, svc *notes.Service, version string) *Server {
	s := &Server{notes: svc, folder: folder}

	s.mcp = server.NewMCPServer(
		"Memopad",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_memos",
		mcp.WithDescription("List the notes in the folder, most recently modified first."),
	), s.listMemos)

	s.mcp.AddTool(mcp.NewTool("read_memo",
		mcp.WithDescription("Read a note with its content and timestamps."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note file name inside the folder, e.g. groceries.md")),
	), s.readMemo)

	s.mcp.AddTool(mcp.NewTool("save_memo",
		mcp.WithDescription("Overwrite the content of an existing note. Use create_memo first for new notes."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note file name inside the folder")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Full Markdown content")),
	), s.saveMemo)

	s.mcp.AddTool(mcp.NewTool("create_memo",
		mcp.WithDescription("Create an empty note. A taken name gets a numeric suffix; existing notes are never overwritten."),
		mcp.WithString("name", mcp.Description("Base name without extension; defaults to \"untitled\"")),
	), s.createMemo)

	s.mcp.AddTool(mcp.NewTool("delete_memo",
		mcp.WithDescription("Delete a note."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note file name inside the folder")),
	), s.deleteMemo)

	s.mcp.AddTool(mcp.NewTool("rename_memo",
		mcp.WithDescription("Rename a note within the folder. Fails if the new name is taken."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Current note file name")),
		mcp.WithString("new_name", mcp.Required(), mcp.Description("New base name; .md is appended")),
	), s.renameMemo)

	s.mcp.AddResource(
		mcp.NewResource(ConventionsURI, "Note conventions",
			mcp.WithResourceDescription("How notes in this folder are named and stored."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readConventions,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// resolve joins a tool-supplied name onto the folder. Containment is enforced
// by the note service, not here.
func (s *Server) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.folder, name)
}

func toolError(err error) *mcp.CallToolResult {
	out, _ := json.Marshal(apperr.As(err))
	return mcp.NewToolResultError(string(out))
}

func toolJSON(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(string(out))
}

func (s *Server) listMemos(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.notes.List(ctx, s.folder)
	if err != nil {
		return toolError(err), nil
	}
	return toolJSON(items), nil
}

func (s *Server) readMemo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.notes.Read(ctx, s.resolve(name), s.folder)
	if err != nil {
		return toolError(err), nil
	}
	return toolJSON(note), nil
}

func (s *Server) saveMemo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	meta, err := s.notes.Save(ctx, s.resolve(name), content, s.folder)
	if err != nil {
		return toolError(err), nil
	}
	return toolJSON(meta), nil
}

func (s *Server) createMemo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	meta, err := s.notes.Create(ctx, s.folder, req.GetString("name", ""))
	if err != nil {
		return toolError(err), nil
	}
	return toolJSON(meta), nil
}

func (s *Server) deleteMemo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.notes.Delete(ctx, s.resolve(name), s.folder); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText("deleted: " + name), nil
}

func (s *Server) renameMemo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	newName, err := req.RequireString("new_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	meta, err := s.notes.Rename(ctx, s.resolve(name), newName, s.folder)
	if err != nil {
		return toolError(err), nil
	}
	return toolJSON(meta), nil
}

func (s *Server) readConventions(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ConventionsURI,
			MIMEType: "text/markdown",
			Text:     Conventions,
		},
	}, nil
}
