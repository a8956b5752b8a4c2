package main

import (
	"fmt"

	"github.com/drakos74/h-clus/client"
	"github.com/drakos74/h-clus/internal/cluster"
	"github.com/spf13/cobra"
)

var (
	addr      string
	tableName string
	depth     int
	mode      int
	fileName  string

	clusterCmd = &cobra.Command{
		Use:   "cluster",
		Short: "Clusters a table on the server and saves the dendrogram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			linkage, err := cluster.ParseLinkage(mode)
			if err != nil {
				return err
			}
			return withClient(cmd, func(c *client.Client) error {
				rendering, err := c.Cluster(depth, linkage, fileName)
				fmt.Fprint(cmd.OutOrStdout(), rendering)
				return err
			})
		},
	}

	loadCmd = &cobra.Command{
		Use:   "load",
		Short: "Loads a saved dendrogram for a table on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(c *client.Client) error {
				rendering, err := c.LoadDendrogram(fileName)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), rendering)
				return nil
			})
		},
	}
)

func init() {
	for _, cmd := range []*cobra.Command{clusterCmd, loadCmd} {
		cmd.Flags().StringVar(&addr, "addr", "", "server address, defaults to the configured one")
		cmd.Flags().StringVarP(&tableName, "table", "t", "", "table to load")
		cmd.Flags().StringVarP(&fileName, "file", "f", "", "dendrogram file name (.bin | .ser | .dat)")
		_ = cmd.MarkFlagRequired("table")
		_ = cmd.MarkFlagRequired("file")
		rootCmd.AddCommand(cmd)
	}
	clusterCmd.Flags().IntVarP(&depth, "depth", "d", 2, "number of dendrogram levels")
	clusterCmd.Flags().IntVarP(&mode, "mode", "m", int(cluster.SingleLink), "0 for average-link, 1 for single-link")
}

func withClient(cmd *cobra.Command, f func(c *client.Client) error) error {
	a := addr
	if a == "" {
		a = cfg.Server.Addr
	}
	c, err := client.Dial(cmd.Context(), a)
	if err != nil {
		return err
	}
	defer c.Close()
	if err := c.Load(tableName); err != nil {
		return err
	}
	return f(c)
}
