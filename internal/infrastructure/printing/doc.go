// Package printing provides infrastructure for turning invoices into PDF
// documents using a headless Chrome instance.
//
// This package contains:
// - InvoiceComposer for building self-contained invoice HTML
// - PDFRenderer interface for rendering HTML to PDF
// - ChromedpRenderer implementation backed by a persistent Chrome process
// - PDFStorage interface for storing and managing generated PDF files
// - FileSystemStorage implementation for local file system storage
//
// The Chrome process is started lazily on the first render and shared by
// all subsequent renders; each render runs in its own isolated tab.
package printing
