// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/problemset/pkg/types"
)

func searchFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "search"}
	cmd.Flags().String("section", "", "")
	cmd.Flags().String("kind", "", "")
	cmd.Flags().Bool("answered", false, "")
	cmd.Flags().Int("limit", 0, "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestQueryOptsFromFlags(t *testing.T) {
	cmd := searchFlags(t, "--section", "1.5", "--kind", "examples", "--answered", "--limit", "5")

	opts, err := queryOptsFromFlags(cmd, []string{"linear", "equations"})
	require.NoError(t, err)

	assert.Equal(t, "linear equations", opts.Query)
	assert.Equal(t, "1.5", opts.Section)
	assert.Equal(t, types.KindExample, opts.Kind)
	assert.True(t, opts.AnsweredOnly)
	assert.Equal(t, 5, opts.MaxResults)
}

func TestQueryOptsFromFlags_UnknownKind(t *testing.T) {
	cmd := searchFlags(t, "--kind", "exercise")

	_, err := queryOptsFromFlags(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown folder kind")
}
