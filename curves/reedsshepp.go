package curves

import "math"

// ReedsShepp models a car with a bounded turning radius that may also drive
// in reverse. Its shortest-path length is never greater than the Dubins
// length between the same states, so it is the right admissible bound for
// motion models that expand reversing primitives.
//
// The word families and closed forms follow the standard Reeds-Shepp
// formulation: CSC, CCC, CCCC, CCSC, and CCSCC, searched under the timeflip
// and reflect transforms (plus the backwards transform for the asymmetric
// families).
type ReedsShepp struct {
	Radius float64 // minimum turning radius
}

const rsEps = 1e-10

// Distance returns the shortest Reeds-Shepp path length from start to end,
// each a (x, y, heading) state.
func (rs *ReedsShepp) Distance(start, end []float64) float64 {
	dx := (end[0] - start[0]) / rs.Radius
	dy := (end[1] - start[1]) / rs.Radius
	c, s := math.Cos(start[2]), math.Sin(start[2])
	x := c*dx + s*dy
	y := -s*dx + c*dy
	phi := mod2pi(end[2] - start[2])
	return rs.Radius * rsPathLength(x, y, phi)
}

func rsPathLength(x, y, phi float64) float64 {
	best := math.Inf(1)
	consider := func(total float64, ok bool) {
		if ok && total < best {
			best = total
		}
	}

	xb := x*math.Cos(phi) + y*math.Sin(phi)
	yb := x*math.Sin(phi) - y*math.Cos(phi)

	type state struct{ x, y, phi float64 }
	variants := []state{{x, y, phi}, {-x, y, -phi}, {x, -y, -phi}, {-x, -y, phi}}
	backwards := []state{{xb, yb, phi}, {-xb, yb, -phi}, {xb, -yb, -phi}, {-xb, -yb, phi}}

	for _, q := range variants {
		if t, u, v, ok := lpSpLp(q.x, q.y, q.phi); ok {
			consider(math.Abs(t)+math.Abs(u)+math.Abs(v), true)
		}
		if t, u, v, ok := lpSpRp(q.x, q.y, q.phi); ok {
			consider(math.Abs(t)+math.Abs(u)+math.Abs(v), true)
		}
		if t, u, v, ok := lpRmL(q.x, q.y, q.phi); ok {
			consider(math.Abs(t)+math.Abs(u)+math.Abs(v), true)
		}
		if t, u, v, ok := lpRupLumRm(q.x, q.y, q.phi); ok {
			consider(math.Abs(t)+2*math.Abs(u)+math.Abs(v), true)
		}
		if t, u, v, ok := lpRumLumRp(q.x, q.y, q.phi); ok {
			consider(math.Abs(t)+2*math.Abs(u)+math.Abs(v), true)
		}
		if t, u, v, ok := lpRmSmLm(q.x, q.y, q.phi); ok {
			consider(math.Abs(t)+math.Pi/2+math.Abs(u)+math.Abs(v), true)
		}
		if t, u, v, ok := lpRmSmRm(q.x, q.y, q.phi); ok {
			consider(math.Abs(t)+math.Pi/2+math.Abs(u)+math.Abs(v), true)
		}
		if t, u, v, ok := lpRmSLmRp(q.x, q.y, q.phi); ok {
			consider(math.Abs(t)+math.Abs(u)+math.Abs(v)+math.Pi, true)
		}
	}
	// the CCC and CCSC words are not palindromes, so the time-reversed
	// problem reaches words the four transforms above cannot
	for _, q := range backwards {
		if t, u, v, ok := lpRmL(q.x, q.y, q.phi); ok {
			consider(math.Abs(t)+math.Abs(u)+math.Abs(v), true)
		}
		if t, u, v, ok := lpRmSmLm(q.x, q.y, q.phi); ok {
			consider(math.Abs(t)+math.Pi/2+math.Abs(u)+math.Abs(v), true)
		}
		if t, u, v, ok := lpRmSmRm(q.x, q.y, q.phi); ok {
			consider(math.Abs(t)+math.Pi/2+math.Abs(u)+math.Abs(v), true)
		}
	}
	return best
}

func polar(x, y float64) (r, theta float64) {
	return math.Hypot(x, y), math.Atan2(y, x)
}

// mod2pi wraps an angle into (-pi, pi].
func mod2pi(x float64) float64 {
	v := math.Mod(x, 2*math.Pi)
	if v < -math.Pi {
		v += 2 * math.Pi
	} else if v > math.Pi {
		v -= 2 * math.Pi
	}
	return v
}

func tauOmega(u, v, xi, eta, phi float64) (tau, omega float64) {
	delta := mod2pi(u - v)
	a := math.Sin(u) - math.Sin(delta)
	b := math.Cos(u) - math.Cos(delta) - 1
	t1 := math.Atan2(eta*a-xi*b, xi*a+eta*b)
	t2 := 2*(math.Cos(delta)-math.Cos(v)-math.Cos(u)) + 3
	if t2 < 0 {
		tau = mod2pi(t1 + math.Pi)
	} else {
		tau = mod2pi(t1)
	}
	omega = mod2pi(tau - u + v - phi)
	return tau, omega
}

// L+S+L+
func lpSpLp(x, y, phi float64) (t, u, v float64, ok bool) {
	u, t = polar(x-math.Sin(phi), y-1+math.Cos(phi))
	if t >= -rsEps {
		v = mod2pi(phi - t)
		if v >= -rsEps {
			return t, u, v, true
		}
	}
	return 0, 0, 0, false
}

// L+S+R+
func lpSpRp(x, y, phi float64) (t, u, v float64, ok bool) {
	u1, t1 := polar(x+math.Sin(phi), y-1-math.Cos(phi))
	u1 *= u1
	if u1 >= 4 {
		u = math.Sqrt(u1 - 4)
		theta := math.Atan2(2, u)
		t = mod2pi(t1 + theta)
		v = mod2pi(t - phi)
		if t >= -rsEps && v >= -rsEps {
			return t, u, v, true
		}
	}
	return 0, 0, 0, false
}

// L+R-L
func lpRmL(x, y, phi float64) (t, u, v float64, ok bool) {
	xi := x - math.Sin(phi)
	eta := y - 1 + math.Cos(phi)
	u1, theta := polar(xi, eta)
	if u1 <= 4 {
		u = -2 * math.Asin(u1/4)
		t = mod2pi(theta + u/2 + math.Pi)
		v = mod2pi(phi - t + u)
		if t >= -rsEps && u <= rsEps {
			return t, u, v, true
		}
	}
	return 0, 0, 0, false
}

// L+R+L-R-
func lpRupLumRm(x, y, phi float64) (t, u, v float64, ok bool) {
	xi := x + math.Sin(phi)
	eta := y - 1 - math.Cos(phi)
	rho := (2 + math.Hypot(xi, eta)) / 4
	if rho <= 1 {
		u = math.Acos(rho)
		t, v = tauOmega(u, -u, xi, eta, phi)
		if t >= -rsEps && v <= rsEps {
			return t, u, v, true
		}
	}
	return 0, 0, 0, false
}

// L+R-L-R+
func lpRumLumRp(x, y, phi float64) (t, u, v float64, ok bool) {
	xi := x + math.Sin(phi)
	eta := y - 1 - math.Cos(phi)
	rho := (20 - xi*xi - eta*eta) / 16
	if rho >= 0 && rho <= 1 {
		u = -math.Acos(rho)
		if u >= -math.Pi/2 {
			t, v = tauOmega(u, u, xi, eta, phi)
			if t >= -rsEps && v >= -rsEps {
				return t, u, v, true
			}
		}
	}
	return 0, 0, 0, false
}

// L+R-S-L-
func lpRmSmLm(x, y, phi float64) (t, u, v float64, ok bool) {
	xi := x - math.Sin(phi)
	eta := y - 1 + math.Cos(phi)
	rho, theta := polar(xi, eta)
	if rho >= 2 {
		r := math.Sqrt(rho*rho - 4)
		u = 2 - r
		t = mod2pi(theta + math.Atan2(r, -2))
		v = mod2pi(phi - math.Pi/2 - t)
		if t >= -rsEps && u <= rsEps && v <= rsEps {
			return t, u, v, true
		}
	}
	return 0, 0, 0, false
}

// L+R-S-R-
func lpRmSmRm(x, y, phi float64) (t, u, v float64, ok bool) {
	xi := x + math.Sin(phi)
	eta := y - 1 - math.Cos(phi)
	rho, theta := polar(-eta, xi)
	if rho >= 2 {
		t = theta
		u = 2 - rho
		v = mod2pi(t + math.Pi/2 - phi)
		if t >= -rsEps && u <= rsEps && v <= rsEps {
			return t, u, v, true
		}
	}
	return 0, 0, 0, false
}

// L+R-S-L-R+
func lpRmSLmRp(x, y, phi float64) (t, u, v float64, ok bool) {
	xi := x + math.Sin(phi)
	eta := y - 1 - math.Cos(phi)
	rho, _ := polar(xi, eta)
	if rho >= 2 {
		u = 4 - math.Sqrt(rho*rho-4)
		if u <= rsEps {
			t = mod2pi(math.Atan2((4-u)*xi-2*eta, -2*xi+(u-4)*eta))
			v = mod2pi(t - phi)
			if t >= -rsEps && v >= -rsEps {
				return t, u, v, true
			}
		}
	}
	return 0, 0, 0, false
}
