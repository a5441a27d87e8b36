// girder-lambda runs the girder HTTP API as an AWS Lambda function behind
// API Gateway. It reuses the exact handler the standalone server mounts,
// translating proxy events to http.Request and back.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/carvallo/girder/internal/airtable"
	"github.com/carvallo/girder/internal/config"
	"github.com/carvallo/girder/internal/dashboard"
	"github.com/carvallo/girder/internal/events"
	"github.com/carvallo/girder/internal/schema"
	"github.com/carvallo/girder/internal/server"
)

var (
	handler http.Handler
	initErr error
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.Load()
	if err != nil {
		// Misconfiguration is permanent for this execution environment;
		// every invocation answers with the error envelope.
		initErr = err
		slog.Error("configuration error", "error", err)
		return
	}

	tableSchema := schema.Default()
	if cfg.SchemaPath != "" {
		tableSchema, err = schema.LoadFile(cfg.SchemaPath)
		if err != nil {
			initErr = err
			slog.Error("schema override error", "error", err)
			return
		}
	}

	var publisher events.Publisher
	if cfg.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			slog.Warn("events disabled", "error", err)
			publisher = &events.NoopPublisher{}
		} else {
			publisher = pub
		}
	} else {
		publisher = &events.NoopPublisher{}
	}

	backend := airtable.NewClient(cfg.AirtableURL, cfg.AirtableBase, cfg.AirtableToken)
	svc := dashboard.NewService(backend, tableSchema)
	handler = server.New(svc, publisher).NewHTTPHandler(cfg.AuthToken, cfg.CORSOrigin)
}

func handleRequest(ctx context.Context, req awsevents.APIGatewayProxyRequest) (awsevents.APIGatewayProxyResponse, error) {
	if initErr != nil {
		return awsevents.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"ok":false,"error":"server misconfigured: ` + initErr.Error() + `"}`,
		}, nil
	}

	httpReq, err := toHTTPRequest(ctx, req)
	if err != nil {
		return awsevents.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"ok":false,"error":"malformed proxy request"}`,
		}, nil
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httpReq)

	headers := make(map[string]string, len(rec.Header()))
	for k := range rec.Header() {
		headers[k] = rec.Header().Get(k)
	}
	return awsevents.APIGatewayProxyResponse{
		StatusCode: rec.Code,
		Headers:    headers,
		Body:       rec.Body.String(),
	}, nil
}

// toHTTPRequest converts an API Gateway proxy event into an http.Request
// suitable for the standard mux.
func toHTTPRequest(ctx context.Context, req awsevents.APIGatewayProxyRequest) (*http.Request, error) {
	u := url.URL{Path: req.Path}
	q := u.Query()
	for k, v := range req.QueryStringParameters {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, req.HTTPMethod, u.String(), strings.NewReader(req.Body))
	if err != nil {
		return nil, err
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	return httpReq, nil
}

func main() {
	lambda.Start(handleRequest)
}
