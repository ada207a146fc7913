package cli

import (
	"github.com/julianstephens/smallwins/internal/export"
)

type ExportCmd struct {
	Format string `help:"Output format: json, csv or xlsx. Inferred from --out when omitted."`
	Out    string `help:"Output file. Writes to stdout when omitted (json and csv only)." type:"path"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	format, err := export.ParseFormat(c.Format, c.Out)
	if err != nil {
		if c.Out != "" || c.Format != "" {
			return err
		}
		format = export.FormatJSON
	}

	all := ctx.Wins.GetAllWins(ctx)
	if c.Out == "" {
		return export.Write(ctx.Out, format, all)
	}

	if err := export.WriteFile(c.Out, format, all); err != nil {
		return err
	}
	ctx.Printf("✓ Exported %d wins to %s\n", len(all), c.Out)
	return nil
}
