// Package exporter writes aggregated grade workbooks to local files.
//
// Two formats are supported:
//
// CSVWriter: one CSV file per section tab, UTF-8 BOM prefixed so Excel
// opens them cleanly.
//
// WorkbookWriter: a single xlsx workbook with one sheet per section,
// mirroring the tab layout of the Google Sheets export.
//
// LocalSink bundles both behind the export-sink contract for deployments
// without Google Sheets credentials.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(paths, logger)
//	files, err := w.WriteExport(ctx, export)
package exporter
