package seed_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-notifier/internal/domain"
	"github.com/jhoicas/stock-notifier/internal/domain/entity"
	"github.com/jhoicas/stock-notifier/internal/infrastructure/memory"
	"github.com/jhoicas/stock-notifier/internal/infrastructure/seed"
)

const validSeed = `
items:
  - name: Item1
    quantity: 10
  - name: Item2
    quantity: 5
  - name: Item3
    quantity: 20
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParse_ConservaOrden(t *testing.T) {
	items, err := seed.Parse([]byte(validSeed))
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultSeed(), items)
}

func TestParse_CombinaNombresRepetidosYNormaliza(t *testing.T) {
	// "Café" con e + acento combinante (NFD) y en forma compuesta (NFC).
	data := "items:\n" +
		"  - name: \"Cafe\u0301\"\n    quantity: 1\n" +
		"  - name: \"  Egg \"\n    quantity: 2\n" +
		"  - name: \"Café\"\n    quantity: 4\n" +
		"  - name: Egg\n    quantity: 3\n"
	items, err := seed.Parse([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, []entity.StockItem{
		{Name: "Café", Quantity: 5},
		{Name: "Egg", Quantity: 5},
	}, items)
}

func TestParse_Invalidos(t *testing.T) {
	_, err := seed.Parse([]byte("items:\n  - name: \"\"\n    quantity: 1\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = seed.Parse([]byte("items:\n  - name: A\n    quantity: -3\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Un nombre con salto de línea agregaría líneas falsas al mensaje.
	_, err = seed.Parse([]byte("items:\n  - name: \"Item1\\nFake: 99\"\n    quantity: 1\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = seed.Parse([]byte("items: [::"))
	assert.Error(t, err)
}

func TestLoad_ArchivoInexistente(t *testing.T) {
	_, err := seed.Load(filepath.Join(t.TempDir(), "no-existe.yaml"))
	assert.Error(t, err)
}

func TestWatch_RecargaYConservaAnteInvalido(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock.yaml")
	writeFile(t, path, validSeed)

	items, err := seed.Load(path)
	require.NoError(t, err)
	store, err := memory.NewStockStore(items)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- seed.Watch(ctx, path, store, zerolog.Nop()) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	// Dar tiempo a que el watcher se registre antes de escribir.
	time.Sleep(50 * time.Millisecond)
	writeFile(t, path, "items:\n  - name: Seed\n    quantity: 7\n")
	require.Eventually(t, func() bool {
		return store.Get().Format() == "Seed: 7"
	}, 3*time.Second, 10*time.Millisecond)

	writeFile(t, path, "items:\n  - name: Seed\n    quantity: -1\n")
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, "Seed: 7", store.Get().Format(), "una recarga inválida no debe modificar el store")
}

func TestWatch_RecargaTrasGuardadoAtomico(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stock.yaml")
	writeFile(t, path, validSeed)

	store, err := memory.NewStockStore(entity.DefaultSeed())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- seed.Watch(ctx, path, store, zerolog.Nop()) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	time.Sleep(50 * time.Millisecond)

	// Guardado como lo hacen los editores: escribir un temporal y renombrarlo sobre el original.
	saveAtomic := func(content string) {
		tmp := filepath.Join(dir, "stock.yaml.tmp")
		writeFile(t, tmp, content)
		require.NoError(t, os.Rename(tmp, path))
	}

	saveAtomic("items:\n  - name: A\n    quantity: 1\n")
	require.Eventually(t, func() bool {
		return store.Get().Format() == "A: 1"
	}, 3*time.Second, 10*time.Millisecond)

	// El segundo guardado reemplaza otra vez el inodo; la recarga debe seguir funcionando.
	saveAtomic("items:\n  - name: B\n    quantity: 2\n")
	require.Eventually(t, func() bool {
		return store.Get().Format() == "B: 2"
	}, 3*time.Second, 10*time.Millisecond)
}

func TestWatch_IgnoraOtrosArchivosDelDirectorio(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stock.yaml")
	writeFile(t, path, validSeed)

	store, err := memory.NewStockStore(entity.DefaultSeed())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- seed.Watch(ctx, path, store, zerolog.Nop()) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	time.Sleep(50 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "otro.yaml"), "items:\n  - name: Otro\n    quantity: 1\n")
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, "Item1: 10\nItem2: 5\nItem3: 20", store.Get().Format())
}
