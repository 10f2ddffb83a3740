package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/unowned-ai/skinlog/pkg/journal"
)

// DefaultJournalName is used when a tool call names no journal.
const DefaultJournalName = "face"

func journalArg(request mcp.CallToolRequest) string {
	if name := stringArg(request, "journal"); name != "" {
		return name
	}
	return DefaultJournalName
}

// RegisterListJournalsTool registers the list_journals tool.
func RegisterListJournalsTool(s *server.MCPServer, tb *Toolbox) {
	tool := mcp.NewTool("list_journals",
		mcp.WithDescription("Lists the skin areas (journals) being tracked."),
		mcp.WithBoolean("active_only", mcp.Description("Only list active journals.")),
	)
	s.AddTool(tool, tb.listJournalsHandler)
}

func (tb *Toolbox) listJournalsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	activeOnly, _ := request.Params.Arguments["active_only"].(bool)
	journals, err := journal.ListJournals(ctx, tb.DB, activeOnly)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list journals: %v", err)), nil
	}
	if len(journals) == 0 {
		return mcp.NewToolResultText("[]"), nil
	}
	return jsonResult(journals, "journals")
}

// RegisterRecordEntryTool registers the record_entry tool.
func RegisterRecordEntryTool(s *server.MCPServer, tb *Toolbox) {
	tool := mcp.NewTool("record_entry",
		mcp.WithDescription("Records a skin classifier result in a journal. The journal is created when missing."),
		mcp.WithString("journal", mcp.DefaultString(DefaultJournalName), mcp.Description("Skin area, e.g. 'face' or 'back'.")),
		mcp.WithString("label", mcp.Required(), mcp.Description("Classifier label, e.g. 'Acne' or 'no issues'.")),
		mcp.WithNumber("confidence", mcp.Required(), mcp.Description("Classifier confidence between 0 and 1.")),
		mcp.WithString("notes", mcp.Description("Optional free-text notes.")),
		mcp.WithString("image_file", mcp.Description("Optional reference to the photo.")),
		mcp.WithString("captured_at", mcp.Description("Optional RFC 3339 capture time. Defaults to now.")),
	)
	s.AddTool(tool, tb.recordEntryHandler)
}

func (tb *Toolbox) recordEntryHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label := stringArg(request, "label")
	if label == "" {
		return mcp.NewToolResultError("'label' parameter is required."), nil
	}
	confidence, ok := request.Params.Arguments["confidence"].(float64)
	if !ok {
		return mcp.NewToolResultError("'confidence' parameter is required and must be a number."), nil
	}

	var capturedAt time.Time
	if raw := stringArg(request, "captured_at"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("'captured_at' must be an RFC 3339 timestamp: %v", err)), nil
		}
		capturedAt = t
	}

	if err := journal.ValidateConfidence(confidence); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	journalName := journalArg(request)
	j, err := journal.EnsureJournal(ctx, tb.DB, journalName)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to find or create journal '%s': %v", journalName, err)), nil
	}

	entry, err := journal.CreateEntry(ctx, tb.DB, j.ID, journal.NewEntry{
		Label:      label,
		Confidence: confidence,
		Notes:      stringArg(request, "notes"),
		ImageFile:  stringArg(request, "image_file"),
		CapturedAt: capturedAt,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to record entry in journal '%s': %v", journalName, err)), nil
	}
	return jsonResult(entry, "entry")
}

// RegisterListEntriesTool registers the list_entries tool.
func RegisterListEntriesTool(s *server.MCPServer, tb *Toolbox) {
	tool := mcp.NewTool("list_entries",
		mcp.WithDescription("Lists a journal's entries, oldest first."),
		mcp.WithString("journal", mcp.DefaultString(DefaultJournalName), mcp.Description("Skin area to list.")),
		mcp.WithBoolean("include_deleted", mcp.Description("Also list soft-deleted entries.")),
	)
	s.AddTool(tool, tb.listEntriesHandler)
}

func (tb *Toolbox) listEntriesHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	journalName := journalArg(request)
	includeDeleted, _ := request.Params.Arguments["include_deleted"].(bool)

	j, err := journal.GetJournalByName(ctx, tb.DB, journalName)
	if err != nil {
		if errors.Is(err, journal.ErrJournalNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Journal '%s' not found.", journalName)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Error finding journal '%s': %v", journalName, err)), nil
	}

	entries, err := journal.ListEntries(ctx, tb.DB, j.ID, includeDeleted)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list entries: %v", err)), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("[]"), nil
	}
	return jsonResult(entries, "entries")
}

// RegisterDeleteEntryTool registers the delete_entry tool.
func RegisterDeleteEntryTool(s *server.MCPServer, tb *Toolbox) {
	tool := mcp.NewTool("delete_entry",
		mcp.WithDescription("Soft-deletes an entry so it no longer counts towards the trend."),
		mcp.WithString("id", mcp.Required(), mcp.Description("ID of the entry.")),
	)
	s.AddTool(tool, tb.deleteEntryHandler)
}

func (tb *Toolbox) deleteEntryHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := uuidArg(request, "id")
	if errResult != nil {
		return errResult, nil
	}
	if err := journal.DeleteEntry(ctx, tb.DB, id); err != nil {
		if errors.Is(err, journal.ErrEntryNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Entry '%s' not found.", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete entry '%s': %v", id, err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Entry '%s' deleted successfully.", id)), nil
}

// RegisterCompareTrendTool registers the compare_trend tool.
func RegisterCompareTrendTool(s *server.MCPServer, tb *Toolbox) {
	tool := mcp.NewTool("compare_trend",
		mcp.WithDescription("Compares the two latest entries of a journal and reports whether the skin Improved, Worsened, Stayed the Same, or there is Not Enough Data."),
		mcp.WithString("journal", mcp.DefaultString(DefaultJournalName), mcp.Description("Skin area to compare.")),
	)
	s.AddTool(tool, tb.compareTrendHandler)
}

func (tb *Toolbox) compareTrendHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	journalName := journalArg(request)
	j, err := journal.GetJournalByName(ctx, tb.DB, journalName)
	if err != nil {
		if errors.Is(err, journal.ErrJournalNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Journal '%s' not found.", journalName)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Error finding journal '%s': %v", journalName, err)), nil
	}

	result, err := journal.CompareLatest(ctx, tb.DB, j.ID, tb.Trend)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to compare entries of '%s': %v", journalName, err)), nil
	}
	tb.recorder().RecordTrend(result.Trend)
	return jsonResult(result, "trend")
}
