package cli

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(ctx); err != nil {
		return err
	}
	ctx.Printf("Initialized smallwins storage at: %s\n", ctx.Store.Location())
	return nil
}
