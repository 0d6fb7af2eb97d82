package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"

	"smartbite/app"
	"smartbite/cart"
	"smartbite/config"
	"smartbite/servesoft"
	"smartbite/session"

	"github.com/urfave/cli/v2"
)

func main() {
	config.LoadEnv()
	cfg := config.LoadClient()

	cliApp := &cli.App{
		Name:  "smartbite",
		Usage: "order food from a ServeSoft backend",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api", Value: cfg.APIURL, EnvVars: []string{"SMARTBITE_API_URL"}, Usage: "backend base URL"},
			&cli.StringFlag{Name: "token-file", Value: cfg.TokenFile, Usage: "where the session token is kept"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log backend failures"},
		},
		Before: func(c *cli.Context) error {
			level := slog.LevelWarn
			if c.Bool("verbose") {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			a := app.New(config.Client{APIURL: c.String("api"), TokenFile: c.String("token-file")}, logger)
			a.Start(c.Context)
			c.Context = a.Context(c.Context)
			return nil
		},
		After: func(c *cli.Context) error {
			if a, err := app.FromContext(c.Context); err == nil {
				a.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"SMARTBITE_PASSWORD"}},
				},
				Action: func(c *cli.Context) error {
					s := session.MustFromContext(c.Context)
					if !s.Login(c.Context, c.String("email"), c.String("password")) {
						return cli.Exit("login failed", 1)
					}
					return printSession(s.Current())
				},
			},
			{
				Name:  "register",
				Usage: "create an account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"SMARTBITE_PASSWORD"}},
					&cli.StringFlag{Name: "role", Usage: "customer, manager or driver"},
					&cli.StringFlag{Name: "phone"},
					&cli.StringFlag{Name: "town"},
				},
				Action: func(c *cli.Context) error {
					s := session.MustFromContext(c.Context)
					ok := s.Register(c.Context, servesoft.Registration{
						Name:     c.String("name"),
						Email:    c.String("email"),
						Password: c.String("password"),
						Role:     c.String("role"),
						Phone:    c.String("phone"),
						Town:     c.String("town"),
					})
					if !ok {
						return cli.Exit("registration failed", 1)
					}
					return printSession(s.Current())
				},
			},
			{
				Name:  "logout",
				Usage: "end the session",
				Action: func(c *cli.Context) error {
					session.MustFromContext(c.Context).Logout(c.Context)
					fmt.Println("signed out")
					return nil
				},
			},
			{
				Name:  "whoami",
				Usage: "show the current session",
				Action: func(c *cli.Context) error {
					return printSession(session.MustFromContext(c.Context).Current())
				},
			},
			{
				Name:      "menu",
				Usage:     "list restaurants, or one restaurant's menu",
				ArgsUsage: "[restaurant-id]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "town"},
					&cli.StringFlag{Name: "cuisine"},
				},
				Action: menu,
			},
			{
				Name:  "cart",
				Usage: "inspect or change the cart",
				Subcommands: []*cli.Command{
					{Name: "show", Action: func(c *cli.Context) error { return printCart(cart.MustFromContext(c.Context)) }},
					{
						Name:      "add",
						ArgsUsage: "<item-id>",
						Action: func(c *cli.Context) error {
							p := cart.MustFromContext(c.Context)
							if err := requireSession(c); err != nil {
								return err
							}
							p.AddItem(c.Context, cart.Item{ID: c.Args().First()})
							return printCart(p)
						},
					},
					{
						Name:      "remove",
						ArgsUsage: "<item-id>",
						Action: func(c *cli.Context) error {
							p := cart.MustFromContext(c.Context)
							if err := requireSession(c); err != nil {
								return err
							}
							p.RemoveItem(c.Context, c.Args().First())
							return printCart(p)
						},
					},
					{
						Name:      "set",
						ArgsUsage: "<item-id> <quantity>",
						Action: func(c *cli.Context) error {
							p := cart.MustFromContext(c.Context)
							if err := requireSession(c); err != nil {
								return err
							}
							qty, err := strconv.Atoi(c.Args().Get(1))
							if err != nil {
								return cli.Exit("quantity must be a number", 2)
							}
							p.UpdateQuantity(c.Context, c.Args().First(), qty)
							return printCart(p)
						},
					},
					{
						Name: "clear",
						Action: func(c *cli.Context) error {
							p := cart.MustFromContext(c.Context)
							if err := requireSession(c); err != nil {
								return err
							}
							p.ClearCart(c.Context)
							return printCart(p)
						},
					},
				},
			},
		},
	}

	if err := cliApp.RunContext(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func requireSession(c *cli.Context) error {
	if session.MustFromContext(c.Context).Current() == nil {
		return cli.Exit("not signed in; run `smartbite login` first", 1)
	}
	return nil
}

func printSession(s *session.Session) error {
	if s == nil {
		fmt.Println("not signed in")
		return nil
	}
	fmt.Printf("%s <%s> id=%s role=%s", s.Name, s.Email, s.ID, s.Role)
	if s.Town != "" {
		fmt.Printf(" town=%s", s.Town)
	}
	fmt.Println()
	return nil
}

func printCart(p *cart.Provider) error {
	snap := p.Snapshot()
	if len(snap.Items) == 0 {
		fmt.Println("cart is empty")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tQTY\tPRICE\tRESTAURANT")
	for _, it := range snap.Items {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%s\n", it.ID, it.Name, it.Quantity, it.Price, it.RestaurantID)
	}
	fmt.Fprintf(w, "\t%d items\t\t%.2f\t\n", snap.ItemCount(), snap.Total)
	return w.Flush()
}

func menu(c *cli.Context) error {
	a, err := app.FromContext(c.Context)
	if err != nil {
		return err
	}
	client := a.Client

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if id := c.Args().First(); id != "" {
		items, err := client.Menu(c.Context, id)
		if err != nil {
			return describe(err)
		}
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tAVAILABLE")
		for _, it := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%t\n", it.ID, it.Name, it.Category, it.Price, it.IsAvailable)
		}
		return nil
	}

	filter := url.Values{}
	if t := c.String("town"); t != "" {
		filter.Set("town", t)
	}
	if cu := c.String("cuisine"); cu != "" {
		filter.Set("cuisine", cu)
	}
	restaurants, err := client.Restaurants(c.Context, filter)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintln(w, "ID\tNAME\tCUISINE\tTOWN\tOPEN")
	for _, r := range restaurants {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", r.ID, r.Name, r.Cuisine, r.Town, r.IsOpen)
	}
	return nil
}

func describe(err error) error {
	var apiErr *servesoft.APIError
	if errors.As(err, &apiErr) {
		return cli.Exit(apiErr.Error(), 1)
	}
	return cli.Exit(err.Error(), 1)
}
