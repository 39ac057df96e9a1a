package main

import (
	"context"
	"fmt"

	"github.com/artgav/amnola-tpp-convertor/internal/drive"
	"github.com/artgav/amnola-tpp-convertor/internal/history"
	"github.com/artgav/amnola-tpp-convertor/internal/parser"
	"github.com/artgav/amnola-tpp-convertor/internal/pipeline"
)

// newExtractor reads text dumps by their .txt extension and treats any
// other path as a PDF, whatever it is named.
func newExtractor() parser.Extractor {
	opts := parser.Options{
		FallbackPdftotext: cfg.PDFFallbackPdftotext,
		PdftotextTimeout:  cfg.PdftotextTimeout,
		Logger:            log,
	}
	return parser.Auto{Options: opts, Fallback: parser.NewPDFParser(opts)}
}

// newUploader connects to Drive and resolves the parent folder. interactive
// allows the browser consent flow when no token is saved yet.
func newUploader(ctx context.Context, interactive bool) (*drive.Store, string, error) {
	if err := cfg.ValidateUpload(); err != nil {
		return nil, "", err
	}
	parentID, err := drive.ResolveFolderID(cfg.DriveFolderID, cfg.FolderIDFile)
	if err != nil {
		return nil, "", err
	}
	oauthCfg, err := drive.OAuthConfig(cfg.CredentialsFile)
	if err != nil {
		return nil, "", err
	}
	client, err := drive.Client(ctx, oauthCfg, cfg.TokenFile, interactive, log)
	if err != nil {
		return nil, "", err
	}
	store, err := drive.New(ctx, client, log)
	if err != nil {
		return nil, "", err
	}
	return store, parentID, nil
}

// newProcessor wires the full conversion pipeline from the loaded config.
// The caller closes the returned ledger.
func newProcessor(ctx context.Context, upload, interactive bool) (*pipeline.Processor, *history.Store, error) {
	ledger, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return nil, nil, fmt.Errorf("open history: %w", err)
	}

	p := &pipeline.Processor{
		Extractor:    newExtractor(),
		OutputDir:    cfg.OutputDir,
		ProcessedDir: cfg.ProcessedDir,
		Ledger:       ledger,
		Stats:        pipeline.NewStats(cfg.JobTTL),
		Log:          log,
	}
	if upload {
		store, parentID, err := newUploader(ctx, interactive)
		if err != nil {
			ledger.Close()
			return nil, nil, err
		}
		p.Uploader = store
		p.ParentID = parentID
	}
	return p, ledger, nil
}
