package entities_test

import (
	"store/entities"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyAdd(t *testing.T) {
	sum, err := entities.Money{Amount: 500, Currency: "EUR"}.Add(entities.Money{Amount: 250, Currency: "EUR"})
	require.NoError(t, err)
	assert.Equal(t, entities.Money{Amount: 750, Currency: "EUR"}, sum)

	_, err = entities.Money{Amount: 500, Currency: "EUR"}.Add(entities.Money{Amount: 250, Currency: "USD"})
	assert.Error(t, err)
}

func TestMoneyMultiplyBy(t *testing.T) {
	total := entities.Money{Amount: 199, Currency: "EUR"}.MultiplyBy(3)
	assert.Equal(t, entities.Money{Amount: 597, Currency: "EUR"}, total)
}

func TestMoneyIsPositive(t *testing.T) {
	assert.True(t, entities.Money{Amount: 1, Currency: "EUR"}.IsPositive())
	assert.False(t, entities.Money{Amount: 0, Currency: "EUR"}.IsPositive())
	assert.False(t, entities.Money{Amount: -10, Currency: "EUR"}.IsPositive())
}
