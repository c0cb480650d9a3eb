package api

import "github.com/Sternrassler/go-shop-catalog/pkg/catalog"

func catalogCategoryCreate(req categoryCreateRequest) catalog.CategoryCreate {
	return catalog.CategoryCreate{
		Name:        req.Name,
		Description: req.Description,
		Slug:        req.Slug,
	}
}

func catalogCategoryUpdate(req categoryUpdateRequest) catalog.CategoryUpdate {
	return catalog.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
		Slug:        req.Slug,
		IsActive:    req.IsActive,
	}
}

func catalogProductCreate(req productCreateRequest) catalog.ProductCreate {
	return catalog.ProductCreate{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		CategoryID:    req.CategoryID,
		ImageURL:      req.ImageURL,
		StockQuantity: req.StockQuantity,
	}
}

func catalogProductUpdate(req productUpdateRequest) catalog.ProductUpdate {
	return catalog.ProductUpdate{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		CategoryID:    req.CategoryID,
		ImageURL:      req.ImageURL,
		StockQuantity: req.StockQuantity,
		IsActive:      req.IsActive,
	}
}
