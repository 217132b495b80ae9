package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput = errors.New("entrada inválida")
	// ErrFetch no fue posible obtener el snapshot de stock (red, respuesta no exitosa o cuerpo inválido).
	ErrFetch = errors.New("no se pudo obtener el stock")
	// ErrSend la plataforma de chat rechazó o no recibió el mensaje.
	ErrSend = errors.New("no se pudo enviar el mensaje")
	// ErrStartupConfig configuración obligatoria ausente o destino mal configurado. Es fatal.
	ErrStartupConfig = errors.New("configuración de arranque inválida")
)
