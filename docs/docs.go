// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/inventory/addInventory": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Inventory"],
                "summary": "Create an inventory item",
                "parameters": [],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/v1/inventory/{item_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Inventory"],
                "summary": "Get an item with its available quantity",
                "parameters": [
                    {"name": "item_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/inventoryBatch/addBatch": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Inventory"],
                "summary": "Add a priced batch",
                "parameters": [],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/v1/inventoryBatch/getInventoryItemBatch/{item_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Inventory"],
                "summary": "List batches of an item",
                "parameters": [
                    {"name": "item_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/jobusedInventory/add": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Ledger"],
                "summary": "Record stock used by a job",
                "parameters": [],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/v1/jobusedInventory/usedinventory/{job_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Ledger"],
                "summary": "Get a job's ledger and total",
                "parameters": [
                    {"name": "job_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/jobusedInventory/update/{job_id}/{item_id}/{batch_no}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Ledger"],
                "summary": "Change a recorded quantity",
                "parameters": [
                    {"name": "job_id", "in": "path", "required": true, "type": "string"},
                    {"name": "item_id", "in": "path", "required": true, "type": "string"},
                    {"name": "batch_no", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/jobusedInventory/delete/{job_id}/{item_id}/{batch_no}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Ledger"],
                "summary": "Delete a record and restore stock",
                "parameters": [
                    {"name": "job_id", "in": "path", "required": true, "type": "string"},
                    {"name": "item_id", "in": "path", "required": true, "type": "string"},
                    {"name": "batch_no", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/v1/inventoryQuotation/add": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Quotations"],
                "summary": "Submit a supplier quotation",
                "parameters": [],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/v1/inventoryQuotation/quotations": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Quotations"],
                "summary": "List quotations",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/inventoryQuotation/quotations/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Quotations"],
                "summary": "Get a quotation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/inventoryQuotation/approve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Quotations"],
                "summary": "Approve a quotation and create its purchase order",
                "parameters": [],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/v1/inventoryQuotation/quotations/approve/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Quotations"],
                "summary": "Confirm an approval (no-op once approved)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/inventoryQuotation/purchaseOrders/{quotation_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Quotations"],
                "summary": "Get the purchase order of a quotation",
                "parameters": [
                    {"name": "quotation_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/jobs/get/warrantyEligibleJobs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Warranty"],
                "summary": "List jobs with warranty metadata",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/jobs/{job_id}/warranty": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Warranty"],
                "summary": "Get a job's warranty status",
                "parameters": [
                    {"name": "job_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/jobs/lowStock/run": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Jobs"],
                "summary": "Run the low-stock check now",
                "parameters": [],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/warranty/claim/{job_id}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Warranty"],
                "summary": "Claim a job's warranty",
                "parameters": [
                    {"name": "job_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"201": {"description": "Created"}}
            },
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Warranty"],
                "summary": "Get a job's warranty claim",
                "parameters": [
                    {"name": "job_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/warranty/claim/{job_id}/evidence": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Warranty"],
                "summary": "Upload claim evidence",
                "parameters": [
                    {"name": "job_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"201": {"description": "Created"}}
            },
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Warranty"],
                "summary": "List claim evidence",
                "parameters": [
                    {"name": "job_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health": {
            "get": {"tags": ["Health"], "summary": "Health of all dependencies", "responses": {"200": {"description": "OK"}, "206": {"description": "Degraded"}}}
        },
        "/health/ready": {
            "get": {"tags": ["Health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Not ready"}}}
        },
        "/health/live": {
            "get": {"tags": ["Health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Repairdesk back office API",
	Description:      "Batch stock, job consumption ledger, supplier quotations and warranty claims.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
