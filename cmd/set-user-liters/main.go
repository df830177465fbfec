package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/jcmexdev/tiendanube-liters/internal/liters/bootstrap"
	"github.com/jcmexdev/tiendanube-liters/internal/liters/infra/trigger"
	"github.com/jcmexdev/tiendanube-liters/internal/pkg/reqctx"
)

func main() {
	rt, err := bootstrap.Setup(context.Background(), "set-user-liters")
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer rt.Shutdown()

	writer := trigger.NewWriter(rt.Service)
	lambda.StartWithOptions(
		func(ctx context.Context, req trigger.Request) (trigger.Response, error) {
			if lc, ok := lambdacontext.FromContext(ctx); ok {
				ctx = reqctx.WithRequestID(ctx, lc.AwsRequestID)
			}
			return writer.Handle(ctx, req)
		},
		lambda.WithEnableSIGTERM(rt.Shutdown),
	)
}
