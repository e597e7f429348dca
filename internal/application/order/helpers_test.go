package order_test

import "github.com/jhoicas/OpenBar-api/internal/application/dto"

func dtoPage() dto.PageRequest {
	return dto.PageRequest{Limit: 50}
}
