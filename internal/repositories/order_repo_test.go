package repositories

import (
	"context"
	"errors"
	"testing"

	"jpashop/internal/common"
	"jpashop/internal/models"
	"jpashop/testhelpers"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	toOneJoinQuery = `SELECT o.id, o.member_id, o.delivery_id, o.order_date, o.status,\s+m.id, m.name,\s+d.id, d.city, d.street, d.zipcode\s+FROM orders o\s+JOIN members m ON m.id = o.member_id\s+JOIN deliveries d ON d.id = o.delivery_id`
	pageSuffix     = `ORDER BY o.id\s+LIMIT \$\d+ OFFSET \$\d+`
)

type OrderRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    OrderRepository
	context context.Context
	orders  []testhelpers.OrderFixture
}

func (suite *OrderRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewOrderRepo(mock)
	suite.context = context.Background()

	suite.orders = []testhelpers.OrderFixture{
		testhelpers.NewOrderFixture("userA", testhelpers.Item("JPA1 BOOK", 10000, 1), testhelpers.Item("JPA2 BOOK", 20000, 2)),
		testhelpers.NewOrderFixture("userB", testhelpers.Item("SPRING1 BOOK", 20000, 3)),
		testhelpers.NewOrderFixture("userC"),
	}
}

func (suite *OrderRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestOrderRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepoTestSuite))
}

func (suite *OrderRepoTestSuite) TestLoadOrders_Success() {
	suite.mock.ExpectQuery(toOneJoinQuery+`\s+`+pageSuffix).
		WithArgs(10, 0).
		WillReturnRows(testhelpers.EntityRows(suite.orders...))

	headers, err := suite.repo.LoadOrders(suite.context, models.OrderSearch{}, 0, 10)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), headers, 3)
	for i, o := range suite.orders {
		assert.Equal(suite.T(), o.Header, headers[i])
	}
}

func (suite *OrderRepoTestSuite) TestLoadOrders_IncludesOrdersWithoutItems() {
	noItems := suite.orders[2]
	suite.mock.ExpectQuery(toOneJoinQuery).
		WithArgs(10, 0).
		WillReturnRows(testhelpers.EntityRows(noItems))

	headers, err := suite.repo.LoadOrders(suite.context, models.OrderSearch{}, 0, 10)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), headers, 1)
	assert.Equal(suite.T(), noItems.Header.OrderID, headers[0].OrderID)
}

func (suite *OrderRepoTestSuite) TestLoadOrders_WithCriteria() {
	name := "userA"
	status := models.OrderStatusOrdered

	suite.mock.ExpectQuery(toOneJoinQuery+`\s+WHERE m.name ILIKE \$1 AND o.status = \$2\s+`+pageSuffix).
		WithArgs("%userA%", "ORDERED", 5, 10).
		WillReturnRows(testhelpers.EntityRows(suite.orders[0]))

	headers, err := suite.repo.LoadOrders(suite.context, models.OrderSearch{MemberName: &name, Status: &status}, 10, 5)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), headers, 1)
	assert.Equal(suite.T(), "userA", headers[0].MemberName)
}

func (suite *OrderRepoTestSuite) TestLoadOrders_NonMatchingMemberReturnsEmpty() {
	name := "nobody"
	suite.mock.ExpectQuery(toOneJoinQuery).
		WithArgs("%nobody%", 10, 0).
		WillReturnRows(testhelpers.EntityRows())

	headers, err := suite.repo.LoadOrders(suite.context, models.OrderSearch{MemberName: &name}, 0, 10)
	require.NoError(suite.T(), err)
	assert.NotNil(suite.T(), headers)
	assert.Empty(suite.T(), headers)
}

func (suite *OrderRepoTestSuite) TestLoadOrders_OffsetBeyondRowsReturnsEmpty() {
	suite.mock.ExpectQuery(toOneJoinQuery).
		WithArgs(10, 500).
		WillReturnRows(testhelpers.EntityRows())

	headers, err := suite.repo.LoadOrders(suite.context, models.OrderSearch{}, 500, 10)
	require.NoError(suite.T(), err)
	assert.NotNil(suite.T(), headers)
	assert.Empty(suite.T(), headers)
}

func (suite *OrderRepoTestSuite) TestLoadOrders_InvalidPagination() {
	_, err := suite.repo.LoadOrders(suite.context, models.OrderSearch{}, -1, 10)
	assert.ErrorIs(suite.T(), err, common.ErrInvalidPagination)

	_, err = suite.repo.LoadOrders(suite.context, models.OrderSearch{}, 0, 0)
	assert.ErrorIs(suite.T(), err, common.ErrInvalidPagination)
}

func (suite *OrderRepoTestSuite) TestLoadOrders_InvalidStatus() {
	status := models.OrderStatus("SHIPPED")
	_, err := suite.repo.LoadOrders(suite.context, models.OrderSearch{Status: &status}, 0, 10)
	assert.ErrorIs(suite.T(), err, common.ErrInvalidCriteria)
}

func (suite *OrderRepoTestSuite) TestLoadOrders_DatabaseError() {
	cause := errors.New("database connection failed")
	suite.mock.ExpectQuery(toOneJoinQuery).
		WithArgs(10, 0).
		WillReturnError(cause)

	headers, err := suite.repo.LoadOrders(suite.context, models.OrderSearch{}, 0, 10)
	assert.Nil(suite.T(), headers)
	assert.ErrorIs(suite.T(), err, common.ErrQueryFailed)
	assert.ErrorIs(suite.T(), err, cause)
}

func (suite *OrderRepoTestSuite) TestLoadOrders_PagesAreDisjointAndContiguous() {
	var all []testhelpers.OrderFixture
	for i := 0; i < 20; i++ {
		all = append(all, testhelpers.NewOrderFixture("member"))
	}

	suite.mock.ExpectQuery(toOneJoinQuery).WithArgs(10, 0).WillReturnRows(testhelpers.EntityRows(all[:10]...))
	suite.mock.ExpectQuery(toOneJoinQuery).WithArgs(10, 10).WillReturnRows(testhelpers.EntityRows(all[10:]...))
	suite.mock.ExpectQuery(toOneJoinQuery).WithArgs(20, 0).WillReturnRows(testhelpers.EntityRows(all...))

	first, err := suite.repo.LoadOrders(suite.context, models.OrderSearch{}, 0, 10)
	require.NoError(suite.T(), err)
	second, err := suite.repo.LoadOrders(suite.context, models.OrderSearch{}, 10, 10)
	require.NoError(suite.T(), err)
	both, err := suite.repo.LoadOrders(suite.context, models.OrderSearch{}, 0, 20)
	require.NoError(suite.T(), err)

	seen := make(map[uuid.UUID]bool)
	for _, h := range first {
		seen[h.OrderID] = true
	}
	for _, h := range second {
		assert.False(suite.T(), seen[h.OrderID], "pages overlap on %s", h.OrderID)
	}
	assert.Equal(suite.T(), models.OrderIDs(both), append(models.OrderIDs(first), models.OrderIDs(second)...))
}

func (suite *OrderRepoTestSuite) TestGetByID_Success() {
	order := suite.orders[0]
	suite.mock.ExpectQuery(toOneJoinQuery + `\s+WHERE o.id = \$1`).
		WithArgs(order.Header.OrderID).
		WillReturnRows(testhelpers.EntityRows(order))

	header, err := suite.repo.GetByID(suite.context, order.Header.OrderID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), order.Header, header)
}

func (suite *OrderRepoTestSuite) TestGetByID_NotFound() {
	id := uuid.New()
	suite.mock.ExpectQuery(toOneJoinQuery + `\s+WHERE o.id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := suite.repo.GetByID(suite.context, id)
	assert.ErrorIs(suite.T(), err, common.ErrOrderNotFound)
	assert.NotErrorIs(suite.T(), err, common.ErrQueryFailed)
}

func (suite *OrderRepoTestSuite) TestGetByID_DatabaseError() {
	id := uuid.New()
	suite.mock.ExpectQuery(toOneJoinQuery).
		WithArgs(id).
		WillReturnError(errors.New("timeout"))

	_, err := suite.repo.GetByID(suite.context, id)
	assert.ErrorIs(suite.T(), err, common.ErrQueryFailed)
}
