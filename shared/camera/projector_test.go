package camera

import (
	"math"
	"testing"

	"LandmarkVision/shared/landmark"
)

func TestProjectCenter(t *testing.T) {
	p := NewPerspective(60, 800, 600)
	p.LookAt(landmark.Vec3{X: 0, Y: -1000, Z: 1000}, landmark.Vec3{})

	screen, ok := p.ProjectToScreen(landmark.Vec3{})
	if !ok {
		t.Fatalf("alvo deveria estar na tela")
	}
	if math.Abs(screen.X-400) > 1e-6 || math.Abs(screen.Y-300) > 1e-6 {
		t.Errorf("alvo projetado em %+v, want (400, 300)", screen)
	}
}

func TestProjectBehindAndOutside(t *testing.T) {
	p := NewPerspective(60, 800, 600)
	p.LookAt(landmark.Vec3{X: 0, Y: 0, Z: 100}, landmark.Vec3{X: 100, Y: 0, Z: 100})

	tests := []struct {
		name  string
		point landmark.Vec3
		want  bool
	}{
		{"à frente", landmark.Vec3{X: 500, Y: 0, Z: 100}, true},
		{"atrás", landmark.Vec3{X: -500, Y: 0, Z: 100}, false},
		{"fora do frustum", landmark.Vec3{X: 10, Y: 5000, Z: 100}, false},
		{"depois do far", landmark.Vec3{X: 1e8, Y: 0, Z: 100}, false},
	}
	for _, tt := range tests {
		if _, ok := p.ProjectToScreen(tt.point); ok != tt.want {
			t.Errorf("%s: na tela = %v, want %v", tt.name, ok, tt.want)
		}
	}
}

func TestLeftRightOrientation(t *testing.T) {
	p := NewPerspective(60, 800, 600)
	// Olhando para +X: +Y fica à esquerda da tela
	p.LookAt(landmark.Vec3{}, landmark.Vec3{X: 1})

	left, okL := p.ProjectToScreen(landmark.Vec3{X: 100, Y: 20})
	right, okR := p.ProjectToScreen(landmark.Vec3{X: 100, Y: -20})
	if !okL || !okR {
		t.Fatalf("pontos deveriam estar na tela")
	}
	if left.X >= right.X {
		t.Errorf("+Y projetado à direita: left=%v right=%v", left.X, right.X)
	}

	up, _ := p.ProjectToScreen(landmark.Vec3{X: 100, Z: 20})
	if up.Y >= 300 {
		t.Errorf("+Z deveria ficar acima do centro: y=%v", up.Y)
	}
}

func TestPoseRoundTrip(t *testing.T) {
	p := NewPerspective(60, 800, 600)
	rot := landmark.Rotator{Pitch: -45, Yaw: 30}
	p.SetPose(landmark.Vec3{X: 10, Y: 20, Z: 3000}, rot)

	got := p.Rotation()
	if math.Abs(got.Pitch-rot.Pitch) > 1e-9 || math.Abs(got.Yaw-rot.Yaw) > 1e-9 {
		t.Errorf("Rotation() = %+v, want %+v", got, rot)
	}
	if p.Eye() != (landmark.Vec3{X: 10, Y: 20, Z: 3000}) {
		t.Errorf("Eye() = %v", p.Eye())
	}
}

func TestStraightDown(t *testing.T) {
	p := NewPerspective(60, 800, 600)
	p.SetPose(landmark.Vec3{Z: 500}, landmark.Rotator{Pitch: -90})

	screen, ok := p.ProjectToScreen(landmark.Vec3{})
	if !ok {
		t.Fatalf("ponto abaixo da câmera deveria estar na tela")
	}
	if math.Abs(screen.X-400) > 1e-3 || math.Abs(screen.Y-300) > 1e-3 {
		t.Errorf("projetado em %+v, want (400, 300)", screen)
	}
}
