package repository

import "github.com/jhoicas/stock-notifier/internal/domain/entity"

// StockStore define el puerto para leer (y reemplazar) el conjunto de artículos rastreados.
type StockStore interface {
	// Get siempre tiene éxito y devuelve una copia defensiva.
	Get() entity.Snapshot
	// Set reemplaza el contenido completo. Retorna domain.ErrInvalidInput si algún artículo es inválido.
	Set(items []entity.StockItem) error
}
