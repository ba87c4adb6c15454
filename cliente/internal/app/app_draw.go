package app

import (
	"fmt"
	"strings"

	"LandmarkVision/shared/landmark"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	labelFontSize = 20
	minFontSize   = 8
	badgePadding  = 4
	badgeGap      = 2
)

// labelBox é o layout em pixels de um rótulo: nome centrado no ponto
// projetado e selo de valor centrado logo acima.
type labelBox struct {
	FontSize     int32
	TextX, TextY int32

	HasBadge       bool
	BadgeFontSize  int32
	BadgeX, BadgeY int32
	BadgeW, BadgeH int32
}

// scaledFontSize aplica a escala do resolvedor ao tamanho base.
func scaledFontSize(base int32, scale float64) int32 {
	fs := int32(float64(base) * scale)
	if fs < minFontSize {
		fs = minFontSize
	}
	return fs
}

// layoutLabel calcula o layout. textW e badgeTextW são as larguras já
// medidas nos tamanhos de fonte correspondentes; badgeTextW <= 0 = sem selo.
func layoutLabel(screen landmark.Vec2, fontSize, textW, badgeTextW int32) labelBox {
	box := labelBox{
		FontSize: fontSize,
		TextX:    int32(screen.X) - textW/2,
		TextY:    int32(screen.Y) - fontSize/2,
	}
	if badgeTextW <= 0 {
		return box
	}

	box.HasBadge = true
	box.BadgeFontSize = badgeFontSize(fontSize)
	box.BadgeW = badgeTextW + 2*badgePadding
	box.BadgeH = box.BadgeFontSize + 2*badgePadding
	box.BadgeX = int32(screen.X) - box.BadgeW/2
	box.BadgeY = box.TextY - badgeGap - box.BadgeH
	return box
}

func badgeFontSize(fontSize int32) int32 {
	if fontSize-4 < minFontSize {
		return minFontSize
	}
	return fontSize - 4
}

// typeColor escolhe a cor do rótulo pelo tipo do landmark.
func typeColor(typeName string) rl.Color {
	switch {
	case strings.HasPrefix(strings.ToLower(typeName), "city"):
		return rl.Gold
	case strings.EqualFold(typeName, "road"):
		return rl.LightGray
	default:
		return rl.SkyBlue
	}
}

// draw renderiza a cena.
func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(30, 30, 40, 255))

	if a.State == StateLoading {
		a.drawLoadingScreen()
	} else {
		a.drawAgents()
		a.drawLabels()
		a.drawHUD()

		if a.State == StatePaused {
			a.drawPauseMenu()
		}
	}

	rl.EndDrawing()
}

// drawLabels desenha os landmarks visíveis com escala e alpha do resolvedor.
func (a *App) drawLabels() {
	vis := a.visible
	for i, rec := range vis.Records {
		alpha := float32(vis.Alphas[i])
		fs := scaledFontSize(labelFontSize, vis.Scales[i])
		textW := rl.MeasureText(rec.DisplayName, fs)

		var badgeText string
		var badgeW int32
		if rec.Value != 0 {
			badgeText = fmt.Sprint(rec.Value)
			badgeW = rl.MeasureText(badgeText, badgeFontSize(fs))
		}

		box := layoutLabel(vis.ScreenPositions[i], fs, textW, badgeW)
		color := typeColor(rec.Type)

		// Sombra para legibilidade
		rl.DrawText(rec.DisplayName, box.TextX+1, box.TextY+1, fs, rl.Fade(rl.Black, alpha*0.6))
		rl.DrawText(rec.DisplayName, box.TextX, box.TextY, fs, rl.Fade(color, alpha))

		if box.HasBadge {
			rl.DrawRectangle(box.BadgeX, box.BadgeY, box.BadgeW, box.BadgeH, rl.Fade(rl.NewColor(0, 0, 0, 200), alpha))
			rl.DrawRectangleLines(box.BadgeX, box.BadgeY, box.BadgeW, box.BadgeH, rl.Fade(color, alpha))
			rl.DrawText(badgeText, box.BadgeX+badgePadding, box.BadgeY+badgePadding, box.BadgeFontSize, rl.Fade(rl.White, alpha))
		}
	}
}

// drawAgents marca no chão a posição dos landmarks vinculados a agentes.
func (a *App) drawAgents() {
	vis := a.visible
	for i, rec := range vis.Records {
		if rec.LinkedEntity == nil {
			continue
		}
		p := vis.ScreenPositions[i]
		rl.DrawCircle(int32(p.X), int32(p.Y)+labelFontSize, 4, rl.Fade(rl.Orange, float32(vis.Alphas[i])))
	}
}

// drawHUD desenha a interface sobreposta.
func (a *App) drawHUD() {
	if !a.Config.ShowDebugInfo {
		return
	}

	width := int32(340)
	height := int32(190)
	x := int32(rl.GetScreenWidth()) - width - 10
	y := int32(10)

	rl.DrawRectangle(x, y, width, height, rl.NewColor(0, 0, 0, 180))
	rl.DrawRectangleLines(x, y, width, height, rl.NewColor(50, 50, 50, 255))

	// FPS
	fps := rl.GetFPS()
	fpsColor := rl.Green
	if fps < 30 {
		fpsColor = rl.Red
	} else if fps < 50 {
		fpsColor = rl.Yellow
	}
	rl.DrawText(fmt.Sprintf("FPS: %d", fps), x+10, y+10, 20, fpsColor)

	rl.DrawLine(x+10, y+35, x+width-10, y+35, rl.NewColor(100, 100, 100, 100))

	// Câmera
	rl.DrawText("CÂMERA", x+10, y+45, 12, rl.Gray)
	pos, rot := a.Cam.Pose()
	rl.DrawText(fmt.Sprintf("Pos: (%.0f, %.0f) Alt: %.0f", pos.X, pos.Y, pos.Z), x+10, y+60, 16, rl.White)
	rl.DrawText(fmt.Sprintf("Pitch: %.1f  Yaw: %.1f  Raio: %d células", rot.Pitch, rot.Yaw, a.world.SearchRadius(pos.Z)),
		x+10, y+80, 14, rl.LightGray)

	rl.DrawLine(x+10, y+100, x+width-10, y+100, rl.NewColor(100, 100, 100, 100))

	// Landmarks
	rl.DrawText(fmt.Sprintf("Landmarks: %d visíveis / %d", a.visible.Len(), a.world.Len()), x+10, y+110, 14, rl.Gold)
	rl.DrawText(fmt.Sprintf("Recálculos: %d", a.world.Recomputes()), x+10, y+125, 14, rl.LightGray)
	rl.DrawText(fmt.Sprintf("Multidão: %s", a.crowdStatus()), x+10, y+140, 14, rl.LightGray)

	rl.DrawText("Scroll: Zoom | WASD: Mover | R: Recarregar | F5: Salvar", x+10, y+165, 12, rl.SkyBlue)

	if a.LoadingStatus != "" {
		rl.DrawText(a.LoadingStatus, 10, int32(rl.GetScreenHeight())-30, 18, rl.Red)
	}
}

// drawPauseMenu desenha o menu de escape centralizado.
func (a *App) drawPauseMenu() {
	screenWidth := int32(rl.GetScreenWidth())
	screenHeight := int32(rl.GetScreenHeight())

	rl.DrawRectangle(0, 0, screenWidth, screenHeight, rl.NewColor(0, 0, 0, 150))

	panelWidth := int32(400)
	panelHeight := int32(240)
	panelX := (screenWidth - panelWidth) / 2
	panelY := (screenHeight - panelHeight) / 2

	rl.DrawRectangle(panelX, panelY, panelWidth, panelHeight, rl.NewColor(30, 30, 35, 255))
	rl.DrawRectangleLines(panelX, panelY, panelWidth, panelHeight, rl.White)

	menuTitle := "MENU DE PAUSA"
	titleWidth := rl.MeasureText(menuTitle, 24)
	rl.DrawText(menuTitle, panelX+(panelWidth-titleWidth)/2, panelY+30, 24, rl.Gold)

	buttonX := panelX + 50
	buttonWidth := panelWidth - 100
	buttonHeight := int32(40)

	if a.drawButton(buttonX, panelY+90, buttonWidth, buttonHeight, "RETOMAR (ESC)", rl.Green) {
		a.State = StateViewing
	}
	if a.drawButton(buttonX, panelY+150, buttonWidth, buttonHeight, "SAIR", rl.Red) {
		a.quit = true
	}
}

// drawButton desenha um botão genérico com hover e retorna true se clicado.
func (a *App) drawButton(x, y, w, h int32, text string, color rl.Color) bool {
	mousePos := rl.GetMousePosition()
	isHover := mousePos.X >= float32(x) && mousePos.X <= float32(x+w) &&
		mousePos.Y >= float32(y) && mousePos.Y <= float32(y+h)

	drawColor := color
	if isHover {
		drawColor.R += 30
		drawColor.G += 30
		drawColor.B += 30
	}

	rl.DrawRectangle(x, y, w, h, rl.NewColor(50, 50, 50, 255))
	rl.DrawRectangleLines(x, y, w, h, drawColor)

	textWidth := rl.MeasureText(text, 18)
	rl.DrawText(text, x+(w-textWidth)/2, y+(h-18)/2, 18, rl.White)

	return isHover && rl.IsMouseButtonPressed(rl.MouseLeftButton)
}

func (a *App) drawLoadingScreen() {
	screenWidth := int32(rl.GetScreenWidth())
	screenHeight := int32(rl.GetScreenHeight())

	title := "LANDMARKVISION"
	titleWidth := rl.MeasureText(title, 40)
	rl.DrawText(title, (screenWidth-titleWidth)/2, screenHeight/2-60, 40, rl.Gold)

	statusWidth := rl.MeasureText(a.LoadingStatus, 18)
	rl.DrawText(a.LoadingStatus, (screenWidth-statusWidth)/2, screenHeight/2+20, 18, rl.LightGray)
}
