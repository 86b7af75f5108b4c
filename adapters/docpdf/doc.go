// Package docpdf turns invoices and expenses into PDF documents.
//
// Drawer places text and rules at fixed coordinates (gofpdf for invoices,
// maroto for expense reports). Rasterizer captures a rendered print fragment
// in headless Chromium and ImageDocument embeds the bitmap into A4 pages.
// PrintJob prints a fragment through Chromium and hands the bytes to a
// Printer.
package docpdf
