package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"foodtruck_back_end/internal/apperr"
	"foodtruck_back_end/internal/database"
	"foodtruck_back_end/internal/models"
)

const productIndex = "products"

// IndexProduct pousse (ou remplace) un produit dans l'index Elasticsearch.
// Appelé en goroutine après création/mise à jour : une erreur est loggée,
// jamais bloquante pour la requête.
func IndexProduct(p models.Product) {
	data, err := json.Marshal(p)
	if err != nil {
		log.Printf("⚠️ Erreur sérialisation produit %d pour Elasticsearch: %v", p.ID, err)
		return
	}

	res, err := database.Elastic.Index(
		productIndex,
		bytes.NewReader(data),
		database.Elastic.Index.WithDocumentID(strconv.FormatInt(p.ID, 10)),
	)
	if err != nil {
		log.Printf("⚠️ Erreur indexation produit %d: %v", p.ID, err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("⚠️ Elasticsearch a refusé le produit %d: %s", p.ID, res.String())
	}
}

// RemoveProductFromIndex retire un produit supprimé de l'index.
func RemoveProductFromIndex(id int64) {
	res, err := database.Elastic.Delete(productIndex, strconv.FormatInt(id, 10))
	if err != nil {
		log.Printf("⚠️ Erreur suppression index produit %d: %v", id, err)
		return
	}
	res.Body.Close()
}

// SearchProducts interroge l'index en multi-match nom/description.
func SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	body := fmt.Sprintf(`{
		"query": {
			"multi_match": {
				"query": %q,
				"fields": ["name^2", "description"],
				"fuzziness": "AUTO"
			}
		}
	}`, query)

	res, err := database.Elastic.Search(
		database.Elastic.Search.WithContext(ctx),
		database.Elastic.Search.WithIndex(productIndex),
		database.Elastic.Search.WithBody(bytes.NewReader([]byte(body))),
	)
	if err != nil {
		return nil, apperr.Wrap(err, "Search is unavailable")
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apperr.New(apperr.Internal, "Search is unavailable")
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperr.Wrap(err, "Search is unavailable")
	}

	products := []models.Product{}
	for _, hit := range parsed.Hits.Hits {
		products = append(products, hit.Source)
	}
	return products, nil
}
