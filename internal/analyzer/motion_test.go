package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulbreuler/runi-audit/internal/types"
)

func TestMotionTransformOnlyIsAccelerated(t *testing.T) {
	src := `
import { motion } from 'framer-motion';

export const DriftBadge = () => (
	<motion.div animate={{ opacity: 1, scale: 1.05 }} />
);
`
	env, _ := testEnv(t, map[string]string{"Signals/DriftBadge.tsx": src})

	a := &MotionAnalyzer{}
	result, err := a.AnalyzeComponent(record("Signals/DriftBadge.tsx", "DriftBadge"), src, env)
	require.NoError(t, err)

	// Transform/opacity animation, no layout properties: no
	// layout-thrashing violations and the acceleration flag is set.
	for _, v := range result.Violations {
		assert.NotEqual(t, "layout-thrashing", v.Rule)
	}
	assert.True(t, result.Flags["hardwareAccelerated"])

	var details MotionDetails
	require.NoError(t, result.DetailsAs(&details))
	assert.True(t, details.HardwareAccelerated)
	assert.Empty(t, details.LayoutProps)
}

func TestMotionLayoutThrashing(t *testing.T) {
	src := `
import { motion } from 'framer-motion';

export const Drawer = () => (
	<motion.div animate={{ width: 320, left: 0 }} />
);
`
	env, _ := testEnv(t, nil)

	a := &MotionAnalyzer{}
	result, err := a.AnalyzeComponent(record("Panels/Drawer.tsx", "Drawer"), src, env)
	require.NoError(t, err)

	rules := map[string]int{}
	for _, v := range result.Violations {
		rules[v.Rule]++
	}
	assert.Greater(t, rules["layout-thrashing"], 0)
	assert.False(t, result.Flags["hardwareAccelerated"])
	assert.Less(t, result.Score, 100.0)
}

func TestMotionIntervalWithoutReactiveValues(t *testing.T) {
	src := `
import { useState, useEffect } from 'react';

export const Pulse = () => {
	const [phase, setPhase] = useState(0);
	useEffect(() => {
		const id = setInterval(() => setPhase(p => p + 1), 16);
		return () => clearInterval(id);
	}, []);
	return <div className={'pulse-' + phase} />;
};
`
	env, _ := testEnv(t, nil)

	a := &MotionAnalyzer{}
	result, err := a.AnalyzeComponent(record("Signals/Pulse.tsx", "Pulse"), src, env)
	require.NoError(t, err)

	var found *types.Violation
	for i := range result.Violations {
		if result.Violations[i].Rule == "missing-reactive-values" {
			found = &result.Violations[i]
		}
	}
	require.NotNil(t, found, "expected a missing-reactive-values violation")
	assert.Equal(t, types.SeverityWarning, found.Severity)
	assert.True(t, result.Flags["intervalDriven"])
	assert.False(t, result.Flags["usesReactiveValues"])
}

func TestMotionIntervalWithReactiveValuesIsClean(t *testing.T) {
	src := `
import { useMotionValue, animate } from 'framer-motion';

export const Pulse = () => {
	const phase = useMotionValue(0);
	setInterval(() => setTick(t => t + 1), 1000);
	return <div />;
};
`
	env, _ := testEnv(t, nil)

	a := &MotionAnalyzer{}
	result, err := a.AnalyzeComponent(record("Signals/Pulse.tsx", "Pulse"), src, env)
	require.NoError(t, err)

	for _, v := range result.Violations {
		assert.NotEqual(t, "missing-reactive-values", v.Rule)
	}
}
