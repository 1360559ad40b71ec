package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"katalog/internal/models"
	"katalog/internal/services"
)

// genericErrorMessage is the only thing a client sees on an unexpected
// failure; internal detail goes to the log.
const genericErrorMessage = "An error occurred while processing your request"

// DefaultLowStockThreshold is used when the low-stock query does not carry a
// usable threshold parameter.
const DefaultLowStockThreshold = 10

// ProductRequest is the wire shape for creating and updating products. The
// same full-entity body serves both; partial updates are not supported.
type ProductRequest struct {
	Name           string  `json:"name" validate:"required,max=200"`
	Description    string  `json:"description" validate:"omitempty,max=1000"`
	Price          float64 `json:"price" validate:"required,gt=0,lte=999999.99"`
	StockAvailable int     `json:"stockAvailable" validate:"gte=0"`
	Category       string  `json:"category" validate:"required,max=100"`
}

func (r *ProductRequest) toEntity() *models.Product {
	return &models.Product{
		Name:           r.Name,
		Description:    r.Description,
		Price:          r.Price,
		StockAvailable: r.StockAvailable,
		Category:       r.Category,
	}
}

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service           *services.ProductService
	validate          *validator.Validate
	lowStockThreshold int
}

// NewProductHandler creates a new ProductHandler. threshold is the default
// for the low-stock listing when the request does not override it.
func NewProductHandler(service *services.ProductService, threshold int) *ProductHandler {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return &ProductHandler{
		service:           service,
		validate:          validator.New(),
		lowStockThreshold: threshold,
	}
}

// RegisterRoutes registers the product routes with the Fiber app. Static
// segments are registered before the ":id" captures so they are not shadowed.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/with-stock", h.HandleGetProductsWithStock)
	productRoutes.Get("/low-stock", h.HandleGetProductsWithLowStock)
	productRoutes.Get("/category/:category", h.HandleGetProductsByCategory)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/decrement-stock/:id/:quantity", h.HandleDecrementStock)
	productRoutes.Put("/add-to-stock/:id/:quantity", h.HandleAddToStock)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// parseRequest binds and validates the request body, writing the 400 response
// itself when the body is malformed or fails shape validation.
func (h *ProductHandler) parseRequest(c *fiber.Ctx) (*ProductRequest, bool) {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return nil, false
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
		return nil, false
	}
	return &req, true
}

// respondError maps service errors to HTTP statuses. Business-rule
// violations carry their message; anything unexpected is logged and hidden
// behind a generic 500.
func respondError(c *fiber.Ctx, operation string, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, models.ErrInvalidArgument):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	default:
		log.Printf("Error during %s: %v", operation, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": genericErrorMessage,
		})
	}
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return respondError(c, "get all products", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Product ID must be an integer",
		})
	}

	product, err := h.service.GetProductByID(id)
	if err != nil {
		return respondError(c, fmt.Sprintf("get product %d", id), err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product and returns it with a Location
// reference to the new resource.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	req, ok := h.parseRequest(c)
	if !ok {
		return nil
	}

	product := req.toEntity()
	if err := h.service.CreateProduct(product); err != nil {
		return respondError(c, "create product", err)
	}

	c.Location(fmt.Sprintf("/api/v1/products/%d", product.ProductID))
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct overwrites an existing product from the request body.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Product ID must be an integer",
		})
	}

	req, ok := h.parseRequest(c)
	if !ok {
		return nil
	}

	updated, err := h.service.UpdateProduct(id, req.toEntity())
	if err != nil {
		return respondError(c, fmt.Sprintf("update product %d", id), err)
	}
	return c.JSON(updated)
}

// HandleDeleteProduct hard-deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Product ID must be an integer",
		})
	}

	deleted, err := h.service.DeleteProduct(id)
	if err != nil {
		return respondError(c, fmt.Sprintf("delete product %d", id), err)
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Product with ID %d not found", id),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// stockParams parses the :id/:quantity pair shared by the stock endpoints.
func stockParams(c *fiber.Ctx) (int, int, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return 0, 0, fmt.Errorf("product ID must be an integer")
	}
	quantity, err := c.ParamsInt("quantity")
	if err != nil {
		return 0, 0, fmt.Errorf("quantity must be an integer")
	}
	return id, quantity, nil
}

// HandleDecrementStock subtracts a quantity from a product's stock and
// responds with the re-fetched product.
func (h *ProductHandler) HandleDecrementStock(c *fiber.Ctx) error {
	id, quantity, err := stockParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	ok, err := h.service.DecrementStock(id, quantity)
	if err != nil {
		return respondError(c, fmt.Sprintf("decrement stock for product %d", id), err)
	}
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Unable to decrement stock for product %d. Product not found or insufficient stock.", id),
		})
	}

	updated, err := h.service.GetProductByID(id)
	if err != nil {
		return respondError(c, fmt.Sprintf("get product %d", id), err)
	}
	return c.JSON(updated)
}

// HandleAddToStock adds a quantity to a product's stock and responds with the
// re-fetched product.
func (h *ProductHandler) HandleAddToStock(c *fiber.Ctx) error {
	id, quantity, err := stockParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	ok, err := h.service.AddToStock(id, quantity)
	if err != nil {
		return respondError(c, fmt.Sprintf("add stock for product %d", id), err)
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Product with ID %d not found", id),
		})
	}

	updated, err := h.service.GetProductByID(id)
	if err != nil {
		return respondError(c, fmt.Sprintf("get product %d", id), err)
	}
	return c.JSON(updated)
}

// HandleGetProductsByCategory retrieves products in a category. An unknown
// category yields an empty list, not a 404.
func (h *ProductHandler) HandleGetProductsByCategory(c *fiber.Ctx) error {
	category := c.Params("category")
	products, err := h.service.GetProductsByCategory(category)
	if err != nil {
		return respondError(c, fmt.Sprintf("get products in category %s", category), err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return c.JSON(products)
}

// HandleGetProductsWithStock retrieves products with stock available.
func (h *ProductHandler) HandleGetProductsWithStock(c *fiber.Ctx) error {
	products, err := h.service.GetProductsWithStock()
	if err != nil {
		return respondError(c, "get products with stock", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return c.JSON(products)
}

// HandleGetProductsWithLowStock retrieves products at or below the stock
// threshold (query parameter "threshold", default from configuration).
func (h *ProductHandler) HandleGetProductsWithLowStock(c *fiber.Ctx) error {
	threshold := c.QueryInt("threshold", h.lowStockThreshold)
	if threshold <= 0 {
		threshold = h.lowStockThreshold
	}

	products, err := h.service.GetProductsWithLowStock(threshold)
	if err != nil {
		return respondError(c, "get products with low stock", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return c.JSON(products)
}
