package dsl_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	verity "github.com/verity-go/verity"
	"github.com/verity-go/verity/dsl"
)

func stockFactory(n int) dsl.ContextFactory[account, stock] {
	return func(ctx context.Context, a account) (stock, error) {
		return stock{Available: n}, nil
	}
}

func rejectingFactory() dsl.ContextFactory[account, stock] {
	return func(ctx context.Context, a account) (stock, error) {
		return stock{}, verity.ErrNotApplicable
	}
}

func inStockSchema() dsl.ContextSchema[account, stock] {
	return dsl.WithContext[stock](dsl.New[account]()).
		ContextRule("in-stock", func(ec verity.ExecCtx, a account, s stock) *verity.Error {
			if a.Balance <= s.Available {
				return nil
			}
			return ec.Issue(verity.CodeConflict, "not enough stock", "available", s.Available)
		})
}

func TestBound_ResolvesExactlyOneFactory(t *testing.T) {
	b := inStockSchema().Factory(stockFactory(3)).Bound()

	res, err := b.Validate(context.Background(), account{Balance: 2})
	require.NoError(t, err)
	assert.True(t, res.Valid())

	res, err = b.Validate(context.Background(), account{Balance: 5})
	require.NoError(t, err)
	require.Len(t, res.Errors(), 1)
	assert.Equal(t, verity.CodeConflict, res.Errors()[0].Code)
}

func TestBound_ZeroFactoriesIsConfigError(t *testing.T) {
	b := inStockSchema().Factory(rejectingFactory()).Bound()

	_, err := b.Validate(context.Background(), account{})
	require.Error(t, err)
	assert.True(t, verity.IsConfigError(err))
	assert.Contains(t, err.Error(), "no applicable context factory")
	assert.Contains(t, err.Error(), "dsl_test.stock")

	// no factory at all behaves the same
	b = inStockSchema().Bound()
	_, err = b.Validate(context.Background(), account{})
	assert.True(t, verity.IsConfigError(err))
}

func TestBound_AmbiguousFactoriesIsConfigError(t *testing.T) {
	b := inStockSchema().
		Factory(stockFactory(1)).
		WhenResolved("dup", func(account) bool { return true }, stockFactory(2),
			dsl.IgnoringContext[stock, account](dsl.New[account]())).
		Bound()

	_, err := b.Validate(context.Background(), account{})
	require.Error(t, err)
	assert.True(t, verity.IsConfigError(err))
	assert.Contains(t, err.Error(), "ambiguous context factories")
	_, isDiag := verity.AsErrors(err)
	assert.False(t, isDiag, "ambiguity is a configuration fault, not a diagnostic")
}

func TestBound_GenuineFactoryFailureAbortsAsIs(t *testing.T) {
	boom := errors.New("inventory down")
	b := inStockSchema().
		Factory(func(ctx context.Context, a account) (stock, error) { return stock{}, boom }).
		Bound()

	_, err := b.Validate(context.Background(), account{})
	require.ErrorIs(t, err, boom)
	assert.False(t, verity.IsConfigError(err))
}

func TestBound_BranchFactoryEnumeratedOnlyWhenPredicateMatches(t *testing.T) {
	// the schema factory self-rejects for "digital" accounts; the branch
	// factory applies only to them.
	schemaFactory := func(ctx context.Context, a account) (stock, error) {
		if strings.HasPrefix(a.Name, "digital") {
			return stock{}, verity.ErrNotApplicable
		}
		return stock{Available: 1}, nil
	}
	b := inStockSchema().
		Factory(schemaFactory).
		WhenResolved("digital", func(a account) bool { return strings.HasPrefix(a.Name, "digital") },
			stockFactory(100), dsl.IgnoringContext[stock, account](dsl.New[account]())).
		Bound()

	// physical: schema factory used, branch factory not enumerated
	res, err := b.Validate(context.Background(), account{Name: "phys", Balance: 1})
	require.NoError(t, err)
	assert.True(t, res.Valid())

	// digital: schema factory self-rejects, branch factory takes over
	res, err = b.Validate(context.Background(), account{Name: "digital-1", Balance: 50})
	require.NoError(t, err)
	assert.True(t, res.Valid())
}

func TestBound_ResolutionRunsBeforeContextRules(t *testing.T) {
	var order []string
	b := dsl.WithContext[stock](dsl.New[account]()).
		ContextRule("observe", func(ec verity.ExecCtx, a account, s stock) *verity.Error {
			order = append(order, "rule")
			return nil
		}).
		Factory(func(ctx context.Context, a account) (stock, error) {
			order = append(order, "factory")
			return stock{}, nil
		}).
		Bound()

	_, err := b.Validate(context.Background(), account{})
	require.NoError(t, err)
	assert.Equal(t, []string{"factory", "rule"}, order)
}

func TestBound_UsesAmbientServices(t *testing.T) {
	type inventory interface{ Available() int }
	b := dsl.WithContext[stock](dsl.New[account]()).
		ContextRule("in-stock", func(ec verity.ExecCtx, a account, s stock) *verity.Error {
			if a.Balance <= s.Available {
				return nil
			}
			return ec.Issue(verity.CodeConflict, "not enough stock")
		}).
		Factory(func(ctx context.Context, a account) (stock, error) {
			inv, err := verity.RequireService[inventory](ctx)
			if err != nil {
				return stock{}, err
			}
			return stock{Available: inv.Available()}, nil
		}).
		Bound()

	// missing service is a config fault surfaced through the abort channel
	_, err := b.Validate(context.Background(), account{Balance: 1})
	require.Error(t, err)
	assert.True(t, verity.IsConfigError(err))

	ctx := verity.WithService(context.Background(), inventory(fixedInventory{n: 3}))
	res, err := b.Validate(ctx, account{Balance: 2})
	require.NoError(t, err)
	assert.True(t, res.Valid())
}

type fixedInventory struct{ n int }

func (f fixedInventory) Available() int { return f.n }

func TestBound_AsBranchTargetWithIndependentContexts(t *testing.T) {
	// two sibling branches under one contextless parent, each resolving its
	// own context type.
	type limits struct{ Max int }

	stockBranch := inStockSchema().Factory(stockFactory(1)).Bound()
	limitBranch := dsl.WithContext[limits](dsl.New[account]()).
		ContextRule("under-limit", func(ec verity.ExecCtx, a account, l limits) *verity.Error {
			if a.Balance <= l.Max {
				return nil
			}
			return ec.Issue(verity.CodeTooBig, "over limit")
		}).
		Factory(func(ctx context.Context, a account) (limits, error) { return limits{Max: 10}, nil }).
		Bound()

	parent := dsl.New[account]().
		When("stocked", func(a account) bool { return a.Name == "stocked" }, stockBranch).
		When("limited", func(a account) bool { return a.Name == "limited" }, limitBranch)

	res, err := parent.Validate(context.Background(), account{Name: "stocked", Balance: 5})
	require.NoError(t, err)
	require.Len(t, res.Errors(), 1)
	assert.Equal(t, verity.CodeConflict, res.Errors()[0].Code)

	res, err = parent.Validate(context.Background(), account{Name: "limited", Balance: 5})
	require.NoError(t, err)
	assert.True(t, res.Valid())

	res, err = parent.Validate(context.Background(), account{Name: "limited", Balance: 50})
	require.NoError(t, err)
	require.Len(t, res.Errors(), 1)
	assert.Equal(t, verity.CodeTooBig, res.Errors()[0].Code)
}

func TestBound_NullSkipsFactoryResolution(t *testing.T) {
	called := false
	b := dsl.WithContext[stock](dsl.New[*account]().Nullable()).
		Factory(func(ctx context.Context, a *account) (stock, error) {
			called = true
			return stock{}, nil
		}).
		Bound()

	res, err := b.Validate(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, res.Valid())
	assert.False(t, called, "nullability decides alone; factories never see null input")
}
