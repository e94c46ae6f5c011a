// Command cartctl drives the bookstore cart from a terminal: it keeps the
// same local backup and catalog snapshot the storefront does and talks to
// the same /carts backend.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/01moynul/bookstore-cart/internal/catalog"
	"github.com/01moynul/bookstore-cart/internal/models"
	"github.com/01moynul/bookstore-cart/internal/reconcile"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type opener func(ctx context.Context, out io.Writer) (*app, error)

func main() {
	if err := newRootCmd(openApp).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:          "cartctl",
		Short:        "Manage your bookstore cart",
		SilenceUsage: true,
	}

	// run opens the app for one command and closes it afterwards.
	run := func(fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.Close()
			return fn(cmd, a, args)
		}
	}

	root.AddCommand(
		loginCmd(run),
		logoutCmd(run),
		showCmd(run),
		addCmd(run),
		updateCmd(run),
		removeCmd(run),
		clearCmd(run),
		refreshCmd(run),
		catalogCmd(run),
	)
	return root
}

type runner func(fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error

// ==================== SESSION ====================

func loginCmd(run runner) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and load your cart",
		RunE: run(func(cmd *cobra.Command, a *app, _ []string) error {
			ctx := cmd.Context()
			s, err := a.client.Login(ctx, email, password)
			if err != nil {
				return err
			}
			if err := a.saveSession(ctx, s); err != nil {
				return err
			}
			if err := a.store.Login(ctx, s.UserID); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Logged in as user %s\n", s.UserID)
			return printCart(a)
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the local cart backup",
		RunE: run(func(cmd *cobra.Command, a *app, _ []string) error {
			ctx := cmd.Context()
			if a.session.UserID == "" {
				return errNotLoggedIn
			}
			// The cart must know its owner to drop the right backup; a
			// failed load does not matter here.
			_ = a.resume(ctx)
			if err := a.store.Logout(ctx); err != nil {
				return err
			}
			if err := a.clearSession(ctx); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		}),
	}
}

// ==================== CART ====================

func showCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the cart",
		RunE: run(func(cmd *cobra.Command, a *app, _ []string) error {
			if a.session.UserID == "" {
				return errNotLoggedIn
			}
			if err := a.resume(cmd.Context()); err != nil {
				return err
			}
			return printCart(a)
		}),
	}
}

func refreshCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Reload the cart from the server",
		RunE: run(func(cmd *cobra.Command, a *app, _ []string) error {
			if a.session.UserID == "" {
				return errNotLoggedIn
			}
			// Login already performs a full refresh.
			if err := a.resume(cmd.Context()); err != nil {
				return err
			}
			return printCart(a)
		}),
	}
}

func addCmd(run runner) *cobra.Command {
	var quantity int
	cmd := &cobra.Command{
		Use:   "add <productId>",
		Short: "Add a catalog product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()

			entries, err := a.catalog.Load(ctx)
			if err != nil {
				return err
			}
			entry, ok := catalog.Find(entries, models.FlexID(args[0]))
			if !ok {
				return fmt.Errorf("product %s is not in the local catalog; run 'cartctl catalog sync'", args[0])
			}

			if err := a.resume(ctx); err != nil {
				return err
			}
			if err := a.store.AddToCart(ctx, productFromEntry(entry), quantity); err != nil {
				return err
			}
			return printCart(a)
		}),
	}
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "number of copies")
	return cmd
}

func updateCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "update <itemId> <quantity>",
		Short: "Set an item's quantity (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(cmd *cobra.Command, a *app, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity must be a number: %w", err)
			}
			if a.session.UserID == "" {
				return errNotLoggedIn
			}
			ctx := cmd.Context()
			if err := a.resume(ctx); err != nil {
				return err
			}
			if err := a.store.UpdateQuantity(ctx, args[0], quantity); err != nil {
				return err
			}
			return printCart(a)
		}),
	}
}

func removeCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <itemId>",
		Short: "Remove an item from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, a *app, args []string) error {
			if a.session.UserID == "" {
				return errNotLoggedIn
			}
			ctx := cmd.Context()
			if err := a.resume(ctx); err != nil {
				return err
			}
			if err := a.store.RemoveFromCart(ctx, args[0]); err != nil {
				return err
			}
			return printCart(a)
		}),
	}
}

func clearCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every item from the cart",
		RunE: run(func(cmd *cobra.Command, a *app, _ []string) error {
			if a.session.UserID == "" {
				return errNotLoggedIn
			}
			ctx := cmd.Context()
			if err := a.resume(ctx); err != nil {
				return err
			}
			return a.store.ClearCart(ctx)
		}),
	}
}

// ==================== CATALOG ====================

func catalogCmd(run runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the local catalog snapshot",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Replace the catalog snapshot with a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, a *app, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var entries []models.CatalogEntry
			if err := json.Unmarshal(raw, &entries); err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			if err := a.catalog.Import(cmd.Context(), entries); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Imported %d catalog entries\n", len(entries))
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Download the catalog from the backend",
		RunE: run(func(cmd *cobra.Command, a *app, _ []string) error {
			entries, err := catalog.Download(cmd.Context(), a.http, a.cfg.Client.APIURL)
			if err != nil {
				return err
			}
			if err := a.catalog.Import(cmd.Context(), entries); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Synced %d catalog entries\n", len(entries))
			return nil
		}),
	})

	return cmd
}

// ==================== OUTPUT ====================

func productFromEntry(e models.CatalogEntry) models.Product {
	p := models.Product{
		ID:            e.ID.String(),
		Name:          e.Name,
		Price:         reconcile.CatalogPrice(e),
		OriginalPrice: reconcile.CatalogOriginalPrice(e),
		Image:         reconcile.CatalogImage(e),
		Description:   e.Description,
		Brand:         e.Brand,
	}
	if p.Name == "" {
		p.Name = e.Title
	}
	if e.Categories != nil {
		p.Category = e.Categories.Name
	}
	return p
}

func printCart(a *app) error {
	snap := a.store.Snapshot()
	if len(snap.Items) == 0 {
		fmt.Fprintln(a.out, "Your cart is empty")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tNAME\tQTY\tPRICE\tLINE")
	for _, it := range snap.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			it.ID, it.ProductID, it.Name, it.Quantity, money(it.Price), money(it.LineTotal()))
	}
	fmt.Fprintf(tw, "\t\tTOTAL\t%d\t\t%s\n", snap.TotalItems, money(snap.TotalPrice))
	return tw.Flush()
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(0) + " ₫"
}
