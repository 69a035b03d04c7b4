package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"shophub/models"
	"shophub/services"
	"shophub/utils"
)

func productsCommand() *cli.Command {
	return &cli.Command{
		Name:  "products",
		Usage: "print one page of the filtered catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Usage: "only show this category"},
			&cli.StringFlag{Name: "min-price", Value: models.DefaultMinPrice.String()},
			&cli.StringFlag{Name: "max-price", Value: models.DefaultMaxPrice.String()},
			&cli.StringFlag{Name: "sort", Value: string(models.SortByName), Usage: "name, price-asc, price-desc or rating"},
			&cli.IntFlag{Name: "page", Value: 1},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			spec, err := filterFromFlags(c)
			if err != nil {
				return err
			}

			client := services.NewCatalogClient(cfg.CatalogURL, &http.Client{})
			result := services.NewCatalogLoader(client, nil).Load(c.Context)
			if result.Status != services.LoadReady {
				return cli.Exit(result.Message, 1)
			}

			browser := services.NewBrowser()
			browser.SetProducts(result.Products)
			browser.SetFilter(spec)
			browser.SetPage(c.Int("page"))
			printPage(browser.View())
			return nil
		},
	}
}

func productCommand() *cli.Command {
	return &cli.Command{
		Name:      "product",
		Usage:     "print a single product",
		ArgsUsage: "ID",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			id, err := strconv.Atoi(c.Args().First())
			if err != nil || id <= 0 {
				return cli.Exit("a positive product ID is required", 2)
			}

			client := services.NewCatalogClient(cfg.CatalogURL, &http.Client{})
			product, err := client.Product(c.Context, id)
			if errors.Is(err, services.ErrProductNotFound) {
				return cli.Exit(services.MsgProductNotFound, 1)
			}
			if err != nil {
				return cli.Exit(services.MsgProductLoadFailed, 1)
			}

			fmt.Printf("%s\n%s\n\n", product.Title, product.Category)
			fmt.Printf("%s  %.1f (%d reviews)\n", utils.Stars(product.Rating.Rate), product.Rating.Rate, product.Rating.Count)
			fmt.Printf("%s\n\n%s\n", utils.FormatMoney(product.Price), product.Description)
			return nil
		},
	}
}

func categoriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "list the catalog categories",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			client := services.NewCatalogClient(cfg.CatalogURL, &http.Client{})
			categories, err := client.Categories(c.Context)
			if err != nil {
				return cli.Exit(services.MsgProductsLoadFailed, 1)
			}
			for _, category := range categories {
				fmt.Println(category)
			}
			return nil
		},
	}
}

func filterFromFlags(c *cli.Context) (models.FilterSpec, error) {
	spec := models.DefaultFilterSpec()
	spec.Category = c.String("category")

	minPrice, err := decimal.NewFromString(c.String("min-price"))
	if err != nil {
		return spec, cli.Exit(fmt.Sprintf("invalid --min-price: %v", err), 2)
	}
	maxPrice, err := decimal.NewFromString(c.String("max-price"))
	if err != nil {
		return spec, cli.Exit(fmt.Sprintf("invalid --max-price: %v", err), 2)
	}
	spec.MinPrice = minPrice
	spec.MaxPrice = maxPrice

	spec.SortBy = models.SortBy(c.String("sort"))
	if !spec.SortBy.Valid() {
		return spec, cli.Exit(fmt.Sprintf("invalid --sort %q", c.String("sort")), 2)
	}
	return spec, nil
}

func printPage(page models.ProductPage) {
	if len(page.Products) == 0 {
		fmt.Println("No products found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tPRICE\tRATING")
	for _, p := range page.Products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			p.ID, utils.Truncate(p.Title, 40), p.Category, utils.FormatMoney(p.Price), utils.Stars(p.Rating.Rate))
	}
	w.Flush()

	fmt.Printf("\nShowing %d-%d of %d products (page %d of %d)\n",
		page.From, page.To, page.TotalCount, page.Page, page.TotalPages)
}
