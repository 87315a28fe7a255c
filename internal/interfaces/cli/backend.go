package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	app "github.com/turtacn/PatentBot-AI/internal/application/priorart"
	"github.com/turtacn/PatentBot-AI/internal/bootstrap"
	domain "github.com/turtacn/PatentBot-AI/internal/domain/priorart"
	"github.com/turtacn/PatentBot-AI/internal/interfaces/http/handlers"
	"github.com/turtacn/PatentBot-AI/pkg/client"
	dto "github.com/turtacn/PatentBot-AI/pkg/types/priorart"
)

// PriorArtBackend is what the search and results commands talk to: either a
// remote API server or the pipeline running in-process.
type PriorArtBackend interface {
	Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error)
	Results(ctx context.Context, sessionID string) (*dto.ResultsResponse, error)
	Close() error
}

// BackendOpener resolves the backend for a command.
type BackendOpener func(cmd *cobra.Command) (PriorArtBackend, error)

func openBackend(cmd *cobra.Command) (PriorArtBackend, error) {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil, err
	}
	if cliCtx.Client != nil {
		return &remoteBackend{client: cliCtx.Client}, nil
	}

	infra, err := bootstrap.NewInfrastructure(cmd.Context(), cliCtx.Config, cliCtx.Logger)
	if err != nil {
		return nil, err
	}
	svc, closer, err := bootstrap.NewPriorArtService(cmd.Context(), cliCtx.Config, infra, bootstrap.PipelineOptions{Logger: cliCtx.Logger})
	if err != nil {
		infra.Close()
		return nil, err
	}
	return &localBackend{svc: svc, embedCloser: closer, infra: infra}, nil
}

type remoteBackend struct {
	client *client.Client
}

func (b *remoteBackend) Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	return b.client.RunSearch(ctx, req)
}

func (b *remoteBackend) Results(ctx context.Context, sessionID string) (*dto.ResultsResponse, error) {
	return b.client.ListResults(ctx, sessionID)
}

func (b *remoteBackend) Close() error { return nil }

type localBackend struct {
	svc         app.Service
	embedCloser io.Closer
	infra       *bootstrap.Infrastructure
}

func (b *localBackend) Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	out, err := b.svc.Search(ctx, &domain.SearchRequest{
		SessionID:   req.SessionID,
		SearchQuery: req.SearchQuery,
		PatentType:  req.PatentType,
	})
	if err != nil {
		return nil, err
	}
	return &dto.SearchResponse{Success: true, ResultsFound: out.ResultsFound, Message: out.Message}, nil
}

func (b *localBackend) Results(ctx context.Context, sessionID string) (*dto.ResultsResponse, error) {
	results, err := b.svc.ListResults(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	resp := handlers.NewResultsResponse(sessionID, results)
	return &resp, nil
}

func (b *localBackend) Close() error {
	err := b.embedCloser.Close()
	b.infra.Close()
	return err
}
