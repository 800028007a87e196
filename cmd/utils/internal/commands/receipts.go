package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/floor/internal/billing"
	"github.com/appetiteclub/floor/internal/mongo"
)

// ListReceipts prints archived receipts, newest first. receipts.table narrows
// the listing to one table and receipts.limit caps it.
func ListReceipts(ctx context.Context, out io.Writer, config *apt.Config, logger apt.Logger) error {
	repo := mongo.NewReceiptRepo(config, logger)
	if err := repo.Start(ctx); err != nil {
		return err
	}
	defer repo.Stop(ctx)

	receipts, err := repo.List(ctx,
		config.GetIntOrDef("receipts.table", 0),
		config.GetIntOrDef("receipts.limit", 20),
	)
	if err != nil {
		return err
	}

	return PrintReceipts(out, config.GetStringOrDef("billing.currency", billing.DefaultCurrency), receipts)
}

func PrintReceipts(out io.Writer, currency string, receipts []billing.Receipt) error {
	if len(receipts) == 0 {
		_, err := fmt.Fprintln(out, "No receipts archived.")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLOSED AT\tTABLE\tMETHOD\tITEMS\tBILL\tTIP\tFINAL")
	for _, r := range receipts {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%s\t%s\t%s\n",
			r.ClosedAt.Format("2006-01-02 15:04:05"),
			r.TableID,
			r.PaymentMethod,
			len(r.Items),
			billing.Money(currency, r.Bill),
			billing.Money(currency, r.Tip),
			billing.Money(currency, r.Final),
		)
	}
	return tw.Flush()
}
