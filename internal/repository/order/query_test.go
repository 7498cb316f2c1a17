package order

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRequestResolve(t *testing.T) {
	req, column, err := PageRequest{Page: -3, SortBy: "order_date"}.resolve(ListSortBy, ListDirection)
	require.NoError(t, err)
	assert.Equal(t, 0, req.Page)
	assert.Equal(t, DefaultPageSize, req.Size)
	assert.Equal(t, "orderDate", req.SortBy)
	assert.Equal(t, Asc, req.Direction)
	assert.Equal(t, "order_date", column)

	req, column, err = PageRequest{Size: 5, Direction: "DESC"}.resolve(SearchSortBy, SearchDirection)
	require.NoError(t, err)
	assert.Equal(t, Desc, req.Direction)
	assert.Equal(t, "order_date", column)

	_, _, err = PageRequest{SortBy: "customer"}.resolve(ListSortBy, ListDirection)
	assert.ErrorIs(t, err, ErrInvalidSortField)
}

func TestSortField(t *testing.T) {
	name, err := SortField("CustomerName")
	require.NoError(t, err)
	assert.Equal(t, "customerName", name)

	_, err = SortField("1; DROP TABLE orders")
	assert.ErrorIs(t, err, ErrInvalidSortField)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection(" Asc ")
	require.NoError(t, err)
	assert.Equal(t, Asc, d)

	_, err = ParseDirection("up")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 10))
	assert.Equal(t, 1, totalPages(10, 10))
	assert.Equal(t, 2, totalPages(11, 10))
	assert.Equal(t, 7, totalPages(7, 1))
}

func TestFilterIsEmpty(t *testing.T) {
	assert.True(t, Filter{CustomerName: "  "}.IsEmpty())
	qty := 1
	assert.False(t, Filter{MinQuantity: &qty}.IsEmpty())
}

func TestPageRequestOffset(t *testing.T) {
	n, ok := PageRequest{Page: 3, Size: 10}.offset()
	assert.True(t, ok)
	assert.Equal(t, 30, n)

	_, ok = PageRequest{Page: math.MaxInt, Size: 2}.offset()
	assert.False(t, ok)

	_, ok = PageRequest{Page: math.MaxInt/10 + 1, Size: 10}.offset()
	assert.False(t, ok)

	n, ok = PageRequest{Page: math.MaxInt / 10, Size: 10}.offset()
	assert.True(t, ok)
	assert.Equal(t, math.MaxInt/10*10, n)
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, "%docking%", containsPattern("Docking"))
	assert.Equal(t, "%100!% cotton%", containsPattern("100% Cotton"))
	assert.Equal(t, "%usb!_c%", containsPattern("USB_C"))
	assert.Equal(t, "%wow!!%", containsPattern("wow!"))
}
