package repositories

import (
	"fmt"
	"strings"

	"jpashop/internal/common"
	"jpashop/internal/models"
)

const orderJoins = `
		FROM orders o
		JOIN members m ON m.id = o.member_id
		JOIN deliveries d ON d.id = o.delivery_id`

// orderWhere renders search as a WHERE clause. Placeholders continue after
// the arguments already in args.
func orderWhere(search models.OrderSearch, args []interface{}) (string, []interface{}, error) {
	var conditions []string
	conditionCount := len(args)

	// Member name filter
	if search.MemberName != nil && strings.TrimSpace(*search.MemberName) != "" {
		conditionCount++
		conditions = append(conditions, fmt.Sprintf(`m.name ILIKE $%d`, conditionCount))
		args = append(args, "%"+strings.TrimSpace(*search.MemberName)+"%")
	}

	// Status filter
	if search.Status != nil {
		if !search.Status.Valid() {
			return "", nil, fmt.Errorf("%w: status %q", common.ErrInvalidCriteria, *search.Status)
		}
		conditionCount++
		conditions = append(conditions, fmt.Sprintf(`o.status = $%d`, conditionCount))
		args = append(args, string(*search.Status))
	}

	if len(conditions) == 0 {
		return "", args, nil
	}
	return "\n\t\tWHERE " + strings.Join(conditions, " AND "), args, nil
}

// pageClause appends LIMIT/OFFSET placeholders for page.
func pageClause(page models.Page, args []interface{}) (string, []interface{}) {
	n := len(args)
	clause := fmt.Sprintf("\n\t\tLIMIT $%d OFFSET $%d", n+1, n+2)
	return clause, append(args, page.Limit, page.Offset)
}
