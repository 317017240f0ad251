package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tenantcache/pkg/cache"
	"github.com/dmitrymomot/tenantcache/pkg/scimschema"
	"github.com/dmitrymomot/tenantcache/pkg/tenantcache"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	errNotCached    = errors.New("no schema cached")
	errNotConfirmed = errors.New("refusing to clear every tenant without --yes")
)

func addTenantFlag(cmd *cobra.Command, id *int64) {
	cmd.Flags().Int64VarP(id, "tenant", "t", 0, "tenant id")
	_ = cmd.MarkFlagRequired("tenant")
}

func newGetCmd(a *app) *cobra.Command {
	var tenant int64
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the cached schema of a tenant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, ok, err := a.schemas.ByTenant(cmd.Context(), tenantcache.TenantID(tenant))
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("tenant %d: %w", tenant, errNotCached)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(schema)
		},
	}
	addTenantFlag(cmd, &tenant)
	return cmd
}

func newPutCmd(a *app) *cobra.Command {
	var (
		tenant int64
		file   string
	)
	cmd := &cobra.Command{
		Use:   "put",
		Short: "Store a schema for a tenant from a JSON file",
		Long:  `Reads an attribute schema as JSON from --file ("-" for stdin), validates it and stores it for the tenant.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var r io.Reader = cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			var schema scimschema.AttributeSchema
			if err := json.NewDecoder(r).Decode(&schema); err != nil {
				return fmt.Errorf("decode schema: %w", err)
			}
			if err := schema.Validate(); err != nil {
				return err
			}

			return a.schemas.Add(cmd.Context(), tenantcache.TenantID(tenant), &schema)
		},
	}
	addTenantFlag(cmd, &tenant)
	cmd.Flags().StringVarP(&file, "file", "f", "-", "schema file")
	return cmd
}

func newClearCmd(a *app) *cobra.Command {
	var tenant int64
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop the cached schema of a tenant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.schemas.ClearByTenant(cmd.Context(), tenantcache.TenantID(tenant))
		},
	}
	addTenantFlag(cmd, &tenant)
	return cmd
}

func newClearAllCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear-all",
		Short: "Drop the cached schemas of every tenant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errNotConfirmed
			}
			return a.schemas.Cache().ClearAll(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm clearing all tenants")
	return cmd
}

func newKeysCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the redis keys held by the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rs, ok := a.store.(*cache.RedisStore[tenantcache.Key, *scimschema.AttributeSchema])
			if !ok {
				return fmt.Errorf("keys: unsupported store %T", a.store)
			}
			keys, err := rs.Keys(cmd.Context())
			if err != nil {
				return err
			}
			slices.Sort(keys)
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}
