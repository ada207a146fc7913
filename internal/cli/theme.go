package cli

type ThemeCmd struct {
	Value string `arg:"" optional:"" help:"light, dark or system. Prints the current theme when omitted."`
}

func (c *ThemeCmd) Run(ctx *Context) error {
	if c.Value == "" {
		ctx.Println(ctx.Settings.GetTheme(ctx))
		return nil
	}
	if err := ctx.Settings.SetTheme(ctx, c.Value); err != nil {
		return err
	}
	ctx.Printf("✓ Theme set to %s\n", ctx.Settings.GetTheme(ctx))
	return nil
}
