package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/dto"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/model"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DevolucionService interface {
	// Registrar settles a return/exchange: validates per-line returnable
	// quantities, computes the net against the chosen price policy, posts one
	// settlement movement when the net is non-zero, and adjusts stock.
	// Everything commits or nothing does.
	Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.DevolucionRequest) (*dto.DevolucionResponse, error)
}

type devolucionService struct {
	ventaRepo    repository.VentaRepository
	devRepo      repository.DevolucionRepository
	productoRepo repository.ProductoRepository
	stockRepo    repository.MovimientoStockRepository
	movRepo      repository.MovimientoRepository
	cajaRepo     repository.CajaRepository
}

func NewDevolucionService(
	ventaRepo repository.VentaRepository,
	devRepo repository.DevolucionRepository,
	productoRepo repository.ProductoRepository,
	stockRepo repository.MovimientoStockRepository,
	movRepo repository.MovimientoRepository,
	cajaRepo repository.CajaRepository,
) DevolucionService {
	return &devolucionService{
		ventaRepo:    ventaRepo,
		devRepo:      devRepo,
		productoRepo: productoRepo,
		stockRepo:    stockRepo,
		movRepo:      movRepo,
		cajaRepo:     cajaRepo,
	}
}

func (s *devolucionService) Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.DevolucionRequest) (*dto.DevolucionResponse, error) {
	ventaID, err := uuid.Parse(req.VentaID)
	if err != nil {
		return nil, ErrReferenciaNoEncontrada.withDetail("venta_id invalido")
	}
	cuenta := model.Cuenta(req.Cuenta)
	if !cuenta.Valida() {
		return nil, ErrCuentasInvalidas
	}

	var devolucion *model.Devolucion
	txErr := runTx(ctx, s.movRepo.DB(), func(tx *gorm.DB) error {
		var sesionID *uuid.UUID
		if cuenta == model.CuentaFisica {
			if sesion, err := s.cajaRepo.FindSesionAbiertaTx(tx); err == nil {
				sesionID = &sesion.ID
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		venta, err := s.ventaRepo.FindByIDTx(tx, ventaID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReferenciaNoEncontrada.withDetail("venta %s no encontrada", req.VentaID)
			}
			return err
		}

		itemsPorID := make(map[uuid.UUID]*model.VentaItem, len(venta.Items))
		precioOriginal := make(map[uuid.UUID]decimal.Decimal, len(venta.Items))
		for i := range venta.Items {
			item := &venta.Items[i]
			itemsPorID[item.ID] = item
			precioOriginal[item.ProductoID] = item.PrecioUnitario
		}

		// Validate and total the returned lines before any write. Quantities
		// accumulate per item, so repeating a venta_item_id across lines is
		// checked against the combined total.
		type lineaDevuelta struct {
			item     *model.VentaItem
			cantidad int
		}
		var devueltos []lineaDevuelta
		pedidoPorItem := make(map[uuid.UUID]int, len(req.Devueltos))
		totalDevuelto := decimal.Zero
		for _, d := range req.Devueltos {
			itemID, err := uuid.Parse(d.VentaItemID)
			if err != nil {
				return ErrReferenciaNoEncontrada.withDetail("venta_item_id invalido")
			}
			item, ok := itemsPorID[itemID]
			if !ok {
				return ErrReferenciaNoEncontrada.withDetail("el item %s no pertenece a la venta", d.VentaItemID)
			}
			disponible := item.Cantidad - item.CantidadDevuelta
			pedidoPorItem[itemID] += d.Cantidad
			if pedidoPorItem[itemID] > disponible {
				return ErrCantidadExcede.withDetail(
					"item %s: se pidieron %d y quedan %d por devolver", d.VentaItemID, pedidoPorItem[itemID], disponible)
			}
			totalDevuelto = totalDevuelto.Add(item.PrecioUnitario.Mul(decimal.NewFromInt(int64(d.Cantidad))))
			devueltos = append(devueltos, lineaDevuelta{item: item, cantidad: d.Cantidad})
		}

		// Price the exchanged lines per policy: "original" reuses the sale
		// price when the producto appeared in the venta, otherwise (and for
		// "actual") the current catalog price applies.
		type lineaCambiada struct {
			productoID uuid.UUID
			cantidad   int
			precio     decimal.Decimal
		}
		var cambiados []lineaCambiada
		totalCambiado := decimal.Zero
		for _, c := range req.Cambiados {
			pid, err := uuid.Parse(c.ProductoID)
			if err != nil {
				return ErrReferenciaNoEncontrada.withDetail("producto_id invalido")
			}
			producto, err := s.productoRepo.FindByIDTx(tx, pid)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrReferenciaNoEncontrada.withDetail("producto %s no encontrado", c.ProductoID)
				}
				return err
			}
			precio := producto.PrecioVenta
			if req.PoliticaPrecio == model.PoliticaPrecioOriginal {
				if original, ok := precioOriginal[pid]; ok {
					precio = original
				}
			}
			totalCambiado = totalCambiado.Add(precio.Mul(decimal.NewFromInt(int64(c.Cantidad))))
			cambiados = append(cambiados, lineaCambiada{productoID: pid, cantidad: c.Cantidad, precio: precio})
		}

		neto := totalCambiado.Sub(totalDevuelto)

		devolucion = &model.Devolucion{
			VentaID:        ventaID,
			Cuenta:         cuenta,
			PoliticaPrecio: req.PoliticaPrecio,
			TotalDevuelto:  totalDevuelto,
			TotalCambiado:  totalCambiado,
			Neto:           neto,
			UsuarioID:      usuarioID,
		}
		for _, d := range devueltos {
			devolucion.Items = append(devolucion.Items, model.DevolucionItem{
				ProductoID:     d.item.ProductoID,
				Tipo:           "devuelto",
				Cantidad:       d.cantidad,
				PrecioUnitario: d.item.PrecioUnitario,
			})
		}
		for _, c := range cambiados {
			devolucion.Items = append(devolucion.Items, model.DevolucionItem{
				ProductoID:     c.productoID,
				Tipo:           "cambiado",
				Cantidad:       c.cantidad,
				PrecioUnitario: c.precio,
			})
		}
		if err := s.devRepo.CreateTx(tx, devolucion); err != nil {
			return err
		}

		// Returned items go back to stock; exchanged items leave it.
		for _, d := range devueltos {
			if err := s.ventaRepo.SumarDevueltoTx(tx, d.item.ID, d.cantidad); err != nil {
				return err
			}
			if err := s.ajustarStockTx(tx, d.item.ProductoID, d.cantidad, "devolucion", devolucion.ID); err != nil {
				return err
			}
		}
		for _, c := range cambiados {
			if err := s.ajustarStockTx(tx, c.productoID, -c.cantidad, "cambio", devolucion.ID); err != nil {
				return err
			}
		}

		if neto.IsZero() {
			return nil
		}
		signo := 1
		tipo := model.MovIngreso
		if neto.IsNegative() {
			signo = -1
			tipo = model.MovEgreso
		}
		refTipo := model.RefDevolucion
		mov, err := buildMovimiento(MovimientoParams{
			Cuenta:         cuenta,
			Tipo:           tipo,
			Signo:          signo,
			Monto:          neto.Abs(),
			Descripcion:    fmt.Sprintf("Devolucion sobre venta %s", req.VentaID),
			UsuarioID:      &usuarioID,
			ReferenciaTipo: &refTipo,
			ReferenciaID:   &devolucion.ID,
			SesionCajaID:   sesionID,
		})
		if err != nil {
			return err
		}
		return s.movRepo.CreateTx(tx, mov)
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.DevolucionResponse{
		ID:            devolucion.ID.String(),
		VentaID:       req.VentaID,
		Cuenta:        req.Cuenta,
		TotalDevuelto: devolucion.TotalDevuelto,
		TotalCambiado: devolucion.TotalCambiado,
		Neto:          devolucion.Neto,
		CreatedAt:     devolucion.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *devolucionService) ajustarStockTx(tx *gorm.DB, productoID uuid.UUID, delta int, tipo string, refID uuid.UUID) error {
	producto, err := s.productoRepo.FindByIDTx(tx, productoID)
	if err != nil {
		return err
	}
	if err := s.productoRepo.AjustarStockTx(tx, productoID, delta); err != nil {
		return err
	}
	ref := refID
	return s.stockRepo.CreateTx(tx, &model.MovimientoStock{
		ProductoID:    productoID,
		Tipo:          tipo,
		Cantidad:      delta,
		StockAnterior: producto.StockActual,
		StockNuevo:    producto.StockActual + delta,
		Motivo:        fmt.Sprintf("Devolucion %s", refID),
		ReferenciaID:  &ref,
	})
}
