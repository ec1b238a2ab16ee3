package http

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"findash/internal/core"
	"findash/internal/export"
	applog "findash/internal/log"
	"findash/internal/services"
)

// loadView parses the selection from the request and runs the pipeline.
func (s *Server) loadView(ctx context.Context, r *http.Request) (services.View, error) {
	q, err := ParseSelection(r.URL.Query())
	if err != nil {
		return services.View{}, err
	}
	v, err := s.dashboard.View(ctx, q)
	if err != nil {
		return services.View{}, err
	}
	s.views.LogView(ctx, v.Sheet, len(v.Selection.Accounts), len(v.Selection.Months), len(v.Records), len(v.Summary.Warnings))
	return v, nil
}

func (s *Server) shareURL(r *http.Request, v services.View) string {
	base := s.shareBaseURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host + "/"
	}
	u, err := export.ShareURL(base, v.Selection, v.Table)
	if err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Share link not built", applog.FieldError, err)
		return ""
	}
	return u
}

// handleIndex renders the dashboard page for the requested selection.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	v, err := s.loadView(ctx, r)
	if err != nil {
		status, _ := classifyError(err)
		applog.FromContext(ctx).LogErrorContext(ctx, "Dashboard view failed", err, applog.OpRender,
			applog.NewFields().WithComponent(applog.ComponentTemplate))
		ErrorHTML(status, pageText(s.dashboard.Locale()).loadError+": "+err.Error()).Write(w)
		return
	}

	data := buildPage(v, s.dashboard.Locale(), s.shareURL(r, v))

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Index template execution failed", applog.FieldError, err, "template", "index.html")
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	NewResponse().BodyHTML(buf.String()).Write(w)
}

type summaryResponse struct {
	Sheet    string        `json:"sheet"`
	Summary  core.Summary  `json:"summary"`
	Cards    []export.Card `json:"cards"`
	ShareURL string        `json:"share_url,omitempty"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	v, err := s.loadView(ctx, r)
	if err != nil {
		s.writeAPIError(ctx, w, err)
		return
	}
	resp := summaryResponse{
		Sheet:    v.Sheet,
		Summary:  v.Summary,
		Cards:    export.Cards(v.Summary, s.dashboard.Locale()),
		ShareURL: s.shareURL(r, v),
	}
	NewResponse().JSON(resp).Write(w)
}

type recordsResponse struct {
	Sheet    string            `json:"sheet"`
	Records  []core.LongRecord `json:"records"`
	Warnings []core.Warning    `json:"warnings"`
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	v, err := s.loadView(ctx, r)
	if err != nil {
		s.writeAPIError(ctx, w, err)
		return
	}
	NewResponse().JSON(recordsResponse{Sheet: v.Sheet, Records: v.Records, Warnings: nonNil(v.Summary.Warnings)}).Write(w)
}

type monthComposition struct {
	Month  core.Month          `json:"month"`
	Label  string              `json:"label"`
	Slices []services.PieSlice `json:"slices"`
}

type seriesResponse struct {
	Sheet       string                 `json:"sheet"`
	Series      []services.ChartSeries `json:"series"`
	Composition []monthComposition     `json:"composition"`
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	v, err := s.loadView(ctx, r)
	if err != nil {
		s.writeAPIError(ctx, w, err)
		return
	}
	resp := seriesResponse{Sheet: v.Sheet, Series: nonNil(v.Series), Composition: []monthComposition{}}
	for _, m := range v.Selection.MonthList() {
		resp.Composition = append(resp.Composition, monthComposition{
			Month:  m,
			Label:  m.Label(s.dashboard.Locale()),
			Slices: services.PieSlices(v.Summary, m),
		})
	}
	NewResponse().JSON(resp).Write(w)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	v, err := s.loadView(ctx, r)
	if err != nil {
		s.writeAPIError(ctx, w, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, v.Records, s.dashboard.Locale()); err != nil {
		s.writeAPIError(ctx, w, err)
		return
	}
	s.views.LogExport(ctx, v.Sheet, "csv", len(v.Records))
	NewResponse().Attachment(export.CSVFilename, "text/csv; charset=utf-8", buf.Bytes()).Write(w)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	v, err := s.loadView(ctx, r)
	if err != nil {
		s.writeAPIError(ctx, w, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, v.Records, v.Summary, s.dashboard.Locale()); err != nil {
		s.writeAPIError(ctx, w, err)
		return
	}
	s.views.LogExport(ctx, v.Sheet, "xlsx", len(v.Records))
	NewResponse().Attachment(export.XLSXFilename,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes()).Write(w)
}

type refreshResponse struct {
	Sheet  string `json:"sheet"`
	Queued bool   `json:"queued"`
}

// handleRefresh drops the cached table and, when a publisher is configured,
// asks the worker to reload the sheet from upstream.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	sheet := strings.TrimSpace(r.URL.Query().Get("sheet"))
	if sheet == "" {
		sheet = s.dashboard.Sheet()
	}

	queued := false
	if s.publisher != nil {
		if err := s.publisher.PublishRefresh(ctx, sheet); err != nil {
			applog.FromContext(ctx).LogErrorContext(ctx, "Refresh publish failed", err, applog.OpRefresh,
				applog.NewFields().WithComponent(applog.ComponentAMQP))
			NewResponse().Status(http.StatusServiceUnavailable).
				JSON(apiError{Error: err.Error(), Code: codeUnavailable}).Write(w)
			return
		}
		queued = true
	}
	s.tables.Invalidate(sheet)

	applog.FromContext(ctx).InfoContext(ctx, "Refresh requested", applog.FieldSheet, sheet, "queued", queued)
	NewResponse().Status(http.StatusAccepted).JSON(refreshResponse{Sheet: sheet, Queued: queued}).Write(w)
}

func (s *Server) writeAPIError(ctx context.Context, w http.ResponseWriter, err error) {
	status, _ := classifyError(err)
	if status >= http.StatusInternalServerError {
		applog.FromContext(ctx).LogErrorContext(ctx, "Request failed", err, applog.OpLoad, nil)
	}
	ErrorJSON(err).Write(w)
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
