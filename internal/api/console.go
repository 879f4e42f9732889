package api

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-shellwords"
	"github.com/mookkammal/storefront/internal/apperr"
	"github.com/mookkammal/storefront/internal/command"
	"github.com/mookkammal/storefront/internal/logger"
	"github.com/mookkammal/storefront/internal/models"
	"github.com/mookkammal/storefront/internal/view"
	"go.uber.org/zap"
)

// Serve reads commands from in until EOF, quit or ctx is done and writes
// every reply to out
func (a *App) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Mookkammal Group storefront. Type help for commands, quit to leave.\n")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "%s> ", strings.ToLower(string(a.state.Vertical())))
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			return nil
		}

		words, err := shellwords.Parse(scanner.Text())
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		if len(words) == 0 {
			continue
		}
		if w := strings.ToLower(words[0]); w == "quit" || w == "exit" {
			return nil
		}

		resp, err := a.Dispatch(ctx, words)
		if err != nil {
			fmt.Fprintf(out, "error: %s\n", apperr.Message(err))
			continue
		}
		if err := render(out, resp); err != nil {
			logger.Warn(ctx, "Failed to render response", zap.Error(err))
		}
	}
	fmt.Fprintln(out)
	return scanner.Err()
}

func render(out io.Writer, resp *command.Response) error {
	if resp == nil {
		return nil
	}
	if resp.Message != "" {
		fmt.Fprintln(out, resp.Message)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	switch data := resp.Data.(type) {
	case nil:
		return nil
	case []models.Product:
		writeProducts(tw, data)
	case ProductDetail:
		p := data.Product
		fmt.Fprintf(tw, "%s\t%s\n", p.ID, p.Name)
		fmt.Fprintf(tw, "Price\t%s\n", priceLine(p))
		fmt.Fprintf(tw, "Category\t%s\n", strings.Trim(p.Category+" / "+p.SubCategory, " /"))
		fmt.Fprintf(tw, "Rating\t%.1f (%d reviews)\n", p.Rating, p.Reviews)
		fmt.Fprintf(tw, "Stock\t%d\n", p.Stock)
		fmt.Fprintf(tw, "About\t%s\n", p.Description)
		fmt.Fprintf(tw, "Assistant\t%s\n", data.Perspective)
	case models.Product:
		writeProducts(tw, []models.Product{data})
	case view.CartSummary:
		if len(data.Items) == 0 {
			fmt.Fprintf(tw, "Your %s bag is empty\n", displayName(data.Vertical))
			break
		}
		fmt.Fprintln(tw, "ID\tNAME\tQTY\tPRICE\tLINE")
		for _, it := range data.Items {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", it.ID, it.Name, it.Quantity, rupees(it.Price), rupees(it.Price*float64(it.Quantity)))
		}
		fmt.Fprintf(tw, "\t\t%d\tSubtotal\t%s\n", data.Count, rupees(data.Subtotal))
		delivery := "FREE"
		if data.Delivery > 0 {
			delivery = rupees(data.Delivery)
		}
		fmt.Fprintf(tw, "\t\t\tDelivery\t%s\n", delivery)
		fmt.Fprintf(tw, "\t\t\tTotal\t%s\n", rupees(data.Total))
	case []models.Order:
		if len(data) == 0 {
			fmt.Fprintln(tw, "No orders yet")
			break
		}
		fmt.Fprintln(tw, "ORDER\tDATE\tSTATUS\tVERTICAL\tITEMS\tTOTAL")
		for _, o := range data {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", o.ID, o.Date.Local().Format("02 Jan 2006 15:04"), o.Status, o.Vertical, models.ItemCount(o.Items), rupees(o.Total))
		}
	case models.Order:
		fmt.Fprintf(tw, "Status\t%s\n", data.Status)
		fmt.Fprintf(tw, "Items\t%d\n", models.ItemCount(data.Items))
		fmt.Fprintf(tw, "Total\t%s\n", rupees(data.Total))
	case []command.Route:
		for _, r := range data {
			fmt.Fprintf(tw, "%s\t%s\n", r.Usage, r.Summary)
		}
	case []CategoryEntry:
		for _, c := range data {
			fmt.Fprintf(tw, "%s\t%s\n", c.Name, strings.Join(c.SubCategories, ", "))
		}
	case models.User:
		fmt.Fprintf(tw, "%s\t%s\t%s\n", data.Name, data.Email, data.Role)
	default:
		b, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, string(b))
	}
	return tw.Flush()
}

func writeProducts(w io.Writer, products []models.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found")
		return
	}
	fmt.Fprintln(w, "ID\tNAME\tVERTICAL\tCATEGORY\tPRICE\tSTOCK\tRATING")
	for _, p := range products {
		name := p.Name
		if p.IsNew {
			name += " (new)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%.1f\n", p.ID, name, p.Vertical, p.Category, rupees(p.Price), p.Stock, p.Rating)
	}
}

func priceLine(p models.Product) string {
	if p.OldPrice > p.Price {
		return fmt.Sprintf("%s (was %s)", rupees(p.Price), rupees(p.OldPrice))
	}
	return rupees(p.Price)
}

func rupees(v float64) string {
	return "₹" + humanize.CommafWithDigits(v, 2)
}
