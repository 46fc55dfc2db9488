package main

import (
	"context"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/baalimago/zai/internal/config"
	"github.com/baalimago/zai/internal/proxy"
	"github.com/baalimago/zai/pkg/zai"
	"github.com/gin-gonic/gin"
)

func serve(ctx context.Context, client *zai.Client, conf config.Configurations) error {
	pc := conf.ProxyConfig()
	pc.Debug = misc.Truthy(os.Getenv("DEBUG"))
	if !pc.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	return proxy.New(client, pc).Run(ctx, conf.ListenAddr())
}
