package report

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settlebook/settlebook/internal/ledger"
)

func TestWriteFormatsBalancesAtFourPlaces(t *testing.T) {
	account := ledger.NewAccount(1)
	account.Deposit(decimal.RequireFromString("1.23456789"))
	account.Hold(decimal.RequireFromString("0.2"))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []*ledger.Account{account}))

	assert.Equal(t,
		"client,available,held,total,locked\n"+
			"1,1.0346,0.2000,1.2346,false\n",
		buf.String())
}

func TestWriteSortsByClientID(t *testing.T) {
	accounts := []*ledger.Account{
		ledger.NewAccount(300),
		ledger.NewAccount(2),
		ledger.NewAccount(65535),
		ledger.NewAccount(1),
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, accounts))

	assert.Equal(t,
		"client,available,held,total,locked\n"+
			"1,0.0000,0.0000,0.0000,false\n"+
			"2,0.0000,0.0000,0.0000,false\n"+
			"300,0.0000,0.0000,0.0000,false\n"+
			"65535,0.0000,0.0000,0.0000,false\n",
		buf.String())
}

func TestWriteLockedAccount(t *testing.T) {
	account := ledger.NewAccount(9)
	account.Deposit(decimal.NewFromInt(100))
	account.Hold(decimal.NewFromInt(100))
	account.Chargeback(decimal.NewFromInt(100))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []*ledger.Account{account}))

	assert.Equal(t,
		"client,available,held,total,locked\n"+
			"9,0.0000,0.0000,0.0000,true\n",
		buf.String())
}

func TestWriteNoAccounts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))

	assert.Equal(t, "client,available,held,total,locked\n", buf.String())
}
