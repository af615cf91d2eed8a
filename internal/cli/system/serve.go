package system

import (
	"github.com/julianstephens/weekwise/internal/cli"
	"github.com/julianstephens/weekwise/internal/server"
)

type ServeCmd struct {
	Address string `help:"Listen address, overrides http.address." placeholder:"HOST:PORT"`
}

func (cmd *ServeCmd) Run(ctx *cli.Context) error {
	if cmd.Address != "" {
		ctx.Config.HTTP.Address = cmd.Address
	}

	ctx.PerformAutomaticBackup()

	srv := server.New(ctx.Config, server.NewHandler(ctx.Store, ctx.Config.Timezone))
	ctx.Printf("Serving %s on http://%s\n", ctx.Store.Location(), srv.Addr)

	return server.Run(ctx.Context(), srv)
}
